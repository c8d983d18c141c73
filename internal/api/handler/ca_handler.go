package handler

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/pkg/response"
	"CAConnect/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CAHandler struct {
	caSvc service.CAService
}

func NewCAHandler(caSvc service.CAService) *CAHandler {
	return &CAHandler{caSvc: caSvc}
}

func (s *CAHandler) CreateProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CAProfileCreateDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	profile, err := s.caSvc.CreateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *CAHandler) GetMyProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	profile, err := s.caSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *CAHandler) GetProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	profile, err := s.caSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *CAHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CAProfileUpdateDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	profile, err := s.caSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

func (s *CAHandler) VerifyProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.caSvc.SetVerified(c.Request.Context(), userID, true); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CAHandler) Search(c *gin.Context) {
	var req dto.CASearchDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.caSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *CAHandler) Suggest(c *gin.Context) {
	keyword := c.Query("keyword")
	suggestions, err := s.caSvc.GetSuggestions(c.Request.Context(), keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, suggestions)
}

func (s *CAHandler) GetMetrics7Days(c *gin.Context) {
	s.metrics(c, 7)
}

func (s *CAHandler) GetMetrics30Days(c *gin.Context) {
	s.metrics(c, 30)
}

func (s *CAHandler) metrics(c *gin.Context, days int) {
	userID := c.GetUint64("user_id")
	metrics, err := s.caSvc.GetDailyMetrics(c.Request.Context(), userID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, metrics)
}
