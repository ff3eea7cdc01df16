package handler

import (
	"Reunite/internal/pkg/response"
	"Reunite/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifyService service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notifyService: s,
	}
}

// GetNotificationList 获取通知列表
func (h *NotificationHandler) GetNotificationList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	userID := c.GetUint64("user_id")

	list, err := h.notifyService.GetNotificationList(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, list)
}

// GetUnreadCount 未读通知数
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	unread, err := h.notifyService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, unread)
}

// MarkRead 标记单条已读，返回更新后的通知本体
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	notifyID := c.Param("id")

	notify, err := h.notifyService.MarkRead(c.Request.Context(), userID, notifyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, notify)
}

// MarkAllRead 一键已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if _, err := h.notifyService.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "All notifications marked as read")
}
