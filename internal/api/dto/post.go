package dto

import "time"

// PostCreateDTO publishes a feed post, optionally attaching a link whose
// preview is fetched server side.
type PostCreateDTO struct {
	Title   string  `json:"title" binding:"max=255"`
	Content string  `json:"content" binding:"required,max=5000"`
	LinkURL *string `json:"linkUrl" binding:"omitempty,url"`
}

// PostDTO is a feed entry with its author and engagement strip.
type PostDTO struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"userId"`
	DisplayName   string    `json:"displayName"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	LinkURL       *string   `json:"linkUrl"`
	LinkTitle     *string   `json:"linkTitle"`
	LinkSummary   *string   `json:"linkSummary"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`

	Reactions *ReactionSummaryDTO `json:"reactions"`
}

// CommentCreateDTO adds a comment, threading under rootId/parentId when
// replying.
type CommentCreateDTO struct {
	PostID        uint64  `json:"postId" binding:"required"`
	Content       string  `json:"content" binding:"required,max=1000"`
	RootID        *uint64 `json:"rootId"`
	ParentID      *uint64 `json:"parentId"`
	ReplyToUserID *uint64 `json:"replyToUserId"`
}

// CommentDTO is a comment with its author and reaction strip.
type CommentDTO struct {
	ID            uint64    `json:"id"`
	PostID        uint64    `json:"postId"`
	UserID        uint64    `json:"userId"`
	DisplayName   string    `json:"displayName"`
	Content       string    `json:"content"`
	RootID        *uint64   `json:"rootId"`
	ParentID      *uint64   `json:"parentId"`
	ReplyToUserID *uint64   `json:"replyToUserId"`
	SubCount      int64     `json:"subCount"`
	CreatedAt     time.Time `json:"createdAt"`

	Reactions *ReactionSummaryDTO `json:"reactions"`
}
