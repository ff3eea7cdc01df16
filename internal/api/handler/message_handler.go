package handler

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/pkg/response"
	"Reunite/internal/service"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(s service.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: s,
	}
}

// SendMessage 发送私信
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64("user_id")
	msg, err := h.messageService.SendMessage(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, msg)
}

// GetInbox 收件箱列表
func (h *MessageHandler) GetInbox(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	userID := c.GetUint64("user_id")

	list, err := h.messageService.GetInbox(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, list)
}

// MarkRead 收件人标记单条已读
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	msgID := c.Param("id")

	if err := h.messageService.MarkRead(c.Request.Context(), userID, msgID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Message marked as read")
}

// Delete 收件人删除单条私信
func (h *MessageHandler) Delete(c *gin.Context) {
	userID := c.GetUint64("user_id")
	msgID := c.Param("id")

	if err := h.messageService.Delete(c.Request.Context(), userID, msgID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Message deleted successfully")
}

// GetUnreadCount 未读私信数
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	unread, err := h.messageService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, unread)
}

// GetRecentUnread 公开的近期未读流。失败时返回空数组而不是错误体，
// 轮询端拿到空列表就当这一轮没有新东西。
func (h *MessageHandler) GetRecentUnread(c *gin.Context) {
	list, err := h.messageService.GetRecentUnread(c.Request.Context())
	if err != nil {
		log.ErrorContext(c.Request.Context(), "query recent unread messages failed", "err", err)
		c.JSON(http.StatusInternalServerError, []*dto.RecentMessageDTO{})
		return
	}

	response.Success(c, list)
}
