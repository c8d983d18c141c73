package handler

import (
	"CAConnect/internal/api/dto"
	"CAConnect/internal/pkg/response"
	"CAConnect/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactSvc service.ContactService
}

func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

func (s *ContactHandler) CreateRequest(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.ContactRequestCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.contactSvc.CreateRequest(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *ContactHandler) AcceptRequest(c *gin.Context) {
	userID := c.GetUint64("user_id")
	requestID, err := strconv.ParseUint(c.Param("request_id"), 10, 64)
	if err != nil || requestID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.contactSvc.AcceptRequest(c.Request.Context(), userID, requestID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ContactHandler) DeclineRequest(c *gin.Context) {
	userID := c.GetUint64("user_id")
	requestID, err := strconv.ParseUint(c.Param("request_id"), 10, 64)
	if err != nil || requestID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.contactSvc.DeclineRequest(c.Request.Context(), userID, requestID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ContactHandler) GetReceived(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, pageSize := pagination(c)
	requests, err := s.contactSvc.GetRequestsForCA(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, requests)
}

func (s *ContactHandler) GetSent(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, pageSize := pagination(c)
	requests, err := s.contactSvc.GetRequestsForCustomer(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, requests)
}
