package dto

import "time"

// ReactionToggleDTO is the body of a reaction toggle request.
type ReactionToggleDTO struct {
	TargetType   string `json:"targetType" binding:"required"`
	TargetID     uint64 `json:"targetId" binding:"required"`
	ReactionType string `json:"reactionType" binding:"required"`
}

// ReactionToggleResultDTO reports the state after a toggle. ReactionType is
// empty when the toggle removed the reaction.
type ReactionToggleResultDTO struct {
	TargetID     uint64           `json:"targetId"`
	ReactionType string           `json:"reactionType"`
	Counts       map[string]int64 `json:"counts"`
	Total        int64            `json:"total"`
}

// ReactionSummaryQueryDTO asks for summaries of a batch of targets.
type ReactionSummaryQueryDTO struct {
	TargetType string   `json:"targetType" binding:"required"`
	TargetIDs  []uint64 `json:"targetIds" binding:"required,min=1,max=100"`
}

// ReactionSummaryDTO is the per-target engagement strip: counts by type,
// the viewer's own reaction, and up to three recent reactor names.
type ReactionSummaryDTO struct {
	TargetID       uint64           `json:"targetId"`
	Counts         map[string]int64 `json:"counts"`
	Total          int64            `json:"total"`
	ViewerReaction string           `json:"viewerReaction"`
	RecentReactors []string         `json:"recentReactors"`
}

// ReactorDTO is one row of the full reactor list.
type ReactorDTO struct {
	UserID       uint64    `json:"userId"`
	DisplayName  string    `json:"displayName"`
	ReactionType string    `json:"reactionType"`
	CreatedAt    time.Time `json:"createdAt"`
}
