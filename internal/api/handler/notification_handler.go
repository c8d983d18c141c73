package handler

import (
	"CAConnect/internal/pkg/response"
	"CAConnect/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

func (s *NotificationHandler) GetInbox(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, pageSize := pagination(c)
	list, err := s.notificationSvc.GetInbox(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	count, err := s.notificationSvc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{
		"unreadCount": count,
	})
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	itemID := c.Param("item_id")
	if itemID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.notificationSvc.MarkAsRead(c.Request.Context(), userID, itemID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.notificationSvc.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
