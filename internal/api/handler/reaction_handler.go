package handler

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/pkg/response"
	"CAConnect/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionSvc service.ReactionService
}

func NewReactionHandler(reactionSvc service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionSvc: reactionSvc}
}

// Toggle applies the three-way reaction toggle: a new type sets it, the
// same type removes it, a different type switches it.
func (s *ReactionHandler) Toggle(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.ReactionToggleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.reactionSvc.ToggleReaction(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *ReactionHandler) GetSummary(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	targetType := c.Param("target_type")
	targetID, err := strconv.ParseUint(c.Param("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	summary, err := s.reactionSvc.GetSummary(c.Request.Context(), viewerID, targetType, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

// GetSummaries resolves the engagement strip for a batch of targets, used
// by feed rendering.
func (s *ReactionHandler) GetSummaries(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	var req dto.ReactionSummaryQueryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	summaries, err := s.reactionSvc.GetSummaries(c.Request.Context(), viewerID, req.TargetType, req.TargetIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summaries)
}

func (s *ReactionHandler) ListReactors(c *gin.Context) {
	targetType := c.Param("target_type")
	targetID, err := strconv.ParseUint(c.Param("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := pagination(c)
	reactors, err := s.reactionSvc.ListReactors(c.Request.Context(), targetType, targetID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reactors)
}
