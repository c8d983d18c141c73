package service

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/pkg/linkpreview"
	"CAConnect/internal/pkg/util"
	"CAConnect/internal/repository"
	"context"
	log "log/slog"

	"github.com/jinzhu/copier"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, viewerID uint64, postID uint64) (*dto.PostDTO, error)
	GetFeed(ctx context.Context, viewerID uint64, page, pageSize int) ([]*dto.PostDTO, error)
	DeletePost(ctx context.Context, userID uint64, postID uint64) error

	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	GetComments(ctx context.Context, viewerID uint64, postID uint64, page, pageSize int) ([]*dto.CommentDTO, error)
	GetReplies(ctx context.Context, viewerID uint64, rootID uint64, page, pageSize int) ([]*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID uint64, commentID uint64) error
}

type PostServiceImpl struct {
	postRepo    repository.PostRepo
	reactionSvc ReactionService
	userSvc     UserService
	previews    linkpreview.Fetcher
}

func NewPostService(postRepo repository.PostRepo, reactionSvc ReactionService, userSvc UserService, previews linkpreview.Fetcher) PostService {
	return &PostServiceImpl{
		postRepo:    postRepo,
		reactionSvc: reactionSvc,
		userSvc:     userSvc,
		previews:    previews,
	}
}

func (s *PostServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	post := &model.Post{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		LinkURL: req.LinkURL,
	}

	if req.LinkURL != nil && *req.LinkURL != "" && s.previews != nil {
		preview, err := s.previews.Fetch(ctx, *req.LinkURL)
		if err != nil {
			// The post still publishes without a preview.
			log.Warn("Failed to fetch link preview", "url", *req.LinkURL, "err", err)
		} else {
			if preview.Title != "" {
				post.LinkTitle = util.PtrStr(preview.Title)
			}
			if preview.Summary != "" {
				post.LinkSummary = util.PtrStr(preview.Summary)
			}
		}
	}

	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return s.postToDTO(created, nil), nil
}

func (s *PostServiceImpl) GetPost(ctx context.Context, viewerID uint64, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	summary, err := s.reactionSvc.GetSummary(ctx, viewerID, consts.TargetTypePost, postID)
	if err != nil {
		return nil, err
	}
	return s.postToDTO(post, summary), nil
}

func (s *PostServiceImpl) GetFeed(ctx context.Context, viewerID uint64, page, pageSize int) ([]*dto.PostDTO, error) {
	posts, err := s.postRepo.GetFeed(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []*dto.PostDTO{}, nil
	}

	postIDs := make([]uint64, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
	}
	summaries, err := s.reactionSvc.GetSummaries(ctx, viewerID, consts.TargetTypePost, postIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		result = append(result, s.postToDTO(post, summaries[post.ID]))
	}
	return result, nil
}

func (s *PostServiceImpl) DeletePost(ctx context.Context, userID uint64, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}
	return s.postRepo.DeletePost(ctx, postID)
}

func (s *PostServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	post, err := s.postRepo.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &model.PostComment{
		PostID:  req.PostID,
		UserID:  userID,
		Content: req.Content,
	}
	if req.RootID != nil && *req.RootID != 0 {
		root, err := s.postRepo.GetCommentByID(ctx, *req.RootID)
		if err != nil {
			return nil, err
		}
		if root == nil || root.PostID != req.PostID {
			return nil, ErrPostCommentNotFound
		}
		comment.RootID = *req.RootID
		if req.ParentID != nil {
			comment.ParentID = *req.ParentID
		}
		if req.ReplyToUserID != nil {
			comment.ReplyToUserID = *req.ReplyToUserID
		}
	}

	if err = s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	if err = s.postRepo.UpdateCommentsCount(ctx, req.PostID, 1); err != nil {
		return nil, err
	}

	dtos, err := s.commentsToDTOs(ctx, 0, []*model.PostComment{comment})
	if err != nil {
		return nil, err
	}
	return dtos[0], nil
}

func (s *PostServiceImpl) GetComments(ctx context.Context, viewerID uint64, postID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	comments, err := s.postRepo.GetRootCommentsByPostID(ctx, postID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.commentsToDTOs(ctx, viewerID, comments)
}

func (s *PostServiceImpl) GetReplies(ctx context.Context, viewerID uint64, rootID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	comments, err := s.postRepo.GetSubCommentsByRootID(ctx, rootID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.commentsToDTOs(ctx, viewerID, comments)
}

func (s *PostServiceImpl) DeleteComment(ctx context.Context, userID uint64, commentID uint64) error {
	comment, err := s.postRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrPostCommentNotFound
	}
	if comment.UserID != userID {
		return UnauthorizedError
	}
	if err = s.postRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	// The whole reply subtree goes away with a root comment.
	delta := -1
	if comment.RootID == 0 {
		counts, err := s.postRepo.GetSubCommentCounts(ctx, []uint64{commentID})
		if err != nil {
			return err
		}
		delta = -1 - int(counts[commentID])
	}
	return s.postRepo.UpdateCommentsCount(ctx, comment.PostID, delta)
}

func (s *PostServiceImpl) postToDTO(post *model.Post, reactions *dto.ReactionSummaryDTO) *dto.PostDTO {
	item := &dto.PostDTO{}
	_ = copier.Copy(item, post)
	item.DisplayName = post.User.UserDetail.DisplayName
	item.Reactions = reactions
	return item
}

// commentsToDTOs resolves authors, reply counts and reaction strips for a
// page of comments in a fixed number of queries.
func (s *PostServiceImpl) commentsToDTOs(ctx context.Context, viewerID uint64, comments []*model.PostComment) ([]*dto.CommentDTO, error) {
	if len(comments) == 0 {
		return []*dto.CommentDTO{}, nil
	}

	commentIDs := make([]uint64, 0, len(comments))
	rootIDs := make([]uint64, 0, len(comments))
	userIDs := make([]uint64, 0, len(comments))
	for _, comment := range comments {
		commentIDs = append(commentIDs, comment.ID)
		if comment.RootID == 0 {
			rootIDs = append(rootIDs, comment.ID)
		}
		userIDs = append(userIDs, comment.UserID)
	}

	users, err := s.userSvc.GetUserSimpleInfoByIds(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	subCounts, err := s.postRepo.GetSubCommentCounts(ctx, rootIDs)
	if err != nil {
		return nil, err
	}
	summaries, err := s.reactionSvc.GetSummaries(ctx, viewerID, consts.TargetTypeComment, commentIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		item := &dto.CommentDTO{
			ID:        comment.ID,
			PostID:    comment.PostID,
			UserID:    comment.UserID,
			Content:   comment.Content,
			SubCount:  subCounts[comment.ID],
			CreatedAt: comment.CreatedAt,
			Reactions: summaries[comment.ID],
		}
		if user, ok := users[comment.UserID]; ok {
			item.DisplayName = user.DisplayName
		}
		if comment.RootID != 0 {
			item.RootID = util.PtrUint64(comment.RootID)
		}
		if comment.ParentID != 0 {
			item.ParentID = util.PtrUint64(comment.ParentID)
		}
		if comment.ReplyToUserID != 0 {
			item.ReplyToUserID = util.PtrUint64(comment.ReplyToUserID)
		}
		result = append(result, item)
	}
	return result, nil
}
