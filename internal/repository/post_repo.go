package repository

import (
	"CAConnect/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, postID uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, postIDs []uint64) ([]*model.Post, error)
	GetFeed(ctx context.Context, limit, offset int) ([]*model.Post, error)
	GetPostsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	DeletePost(ctx context.Context, postID uint64) error
	UpdateCommentsCount(ctx context.Context, postID uint64, delta int) error

	CreateComment(ctx context.Context, comment *model.PostComment) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error)
	GetRootCommentsByPostID(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostComment, error)
	GetSubCommentsByRootID(ctx context.Context, rootID uint64, limit, offset int) ([]*model.PostComment, error)
	GetSubCommentCounts(ctx context.Context, rootIDs []uint64) (map[uint64]int64, error)
	DeleteComment(ctx context.Context, commentID uint64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s *PostRepoImpl) GetPost(ctx context.Context, postID uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("id = ? AND is_deleted = ?", postID, false).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) GetPostByIds(ctx context.Context, postIDs []uint64) ([]*model.Post, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("id IN ? AND is_deleted = ?", postIDs, false).
		Find(&posts).Error
	return posts, err
}

func (s *PostRepoImpl) GetFeed(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (s *PostRepoImpl) GetPostsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (s *PostRepoImpl) DeletePost(ctx context.Context, postID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		Update("is_deleted", true).Error
}

func (s *PostRepoImpl) UpdateCommentsCount(ctx context.Context, postID uint64, delta int) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		Update("comments_count", gorm.Expr("CASE WHEN comments_count + ? > 0 THEN comments_count + ? ELSE 0 END", delta, delta)).Error
}

func (s *PostRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *PostRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	var comment model.PostComment
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", commentID, false).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *PostRepoImpl) GetRootCommentsByPostID(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostComment, error) {
	var comments []*model.PostComment
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND root_id = ? AND is_deleted = ?", postID, 0, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (s *PostRepoImpl) GetSubCommentsByRootID(ctx context.Context, rootID uint64, limit, offset int) ([]*model.PostComment, error) {
	var comments []*model.PostComment
	err := s.db.WithContext(ctx).
		Where("root_id = ? AND is_deleted = ?", rootID, false).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (s *PostRepoImpl) GetSubCommentCounts(ctx context.Context, rootIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(rootIDs))
	if len(rootIDs) == 0 {
		return result, nil
	}
	type subCount struct {
		RootID uint64
		Total  int64
	}
	var rows []subCount
	err := s.db.WithContext(ctx).Model(&model.PostComment{}).
		Select("root_id, COUNT(*) AS total").
		Where("root_id IN ? AND is_deleted = ?", rootIDs, false).
		Group("root_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.RootID] = row.Total
	}
	return result, nil
}

// DeleteComment soft-deletes the comment and its whole reply subtree.
func (s *PostRepoImpl) DeleteComment(ctx context.Context, commentID uint64) error {
	return s.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("(id = ? OR root_id = ?) AND is_deleted = ?", commentID, commentID, false).
		Update("is_deleted", true).Error
}
