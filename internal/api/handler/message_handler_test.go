package handler

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/api/middleware"
	"Reunite/internal/service"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeMessageService struct {
	unread      int64
	markReadErr error
	deleteErr   error
	recent      []*dto.RecentMessageDTO
	recentErr   error
	markedIDs   []string
}

func (s *fakeMessageService) SendMessage(_ context.Context, senderID uint64, d *dto.SendMessageDTO) (*dto.MessageDTO, error) {
	return &dto.MessageDTO{ID: "m1", FromID: senderID, ToID: d.ToID, Content: d.Content}, nil
}

func (s *fakeMessageService) GetInbox(context.Context, uint64, int, int) ([]*dto.MessageDTO, error) {
	return nil, nil
}

func (s *fakeMessageService) MarkRead(_ context.Context, _ uint64, msgID string) error {
	if s.markReadErr != nil {
		return s.markReadErr
	}
	s.markedIDs = append(s.markedIDs, msgID)
	return nil
}

func (s *fakeMessageService) Delete(context.Context, uint64, string) error {
	return s.deleteErr
}

func (s *fakeMessageService) GetUnreadCount(context.Context, uint64) (*dto.UnreadCountDTO, error) {
	return &dto.UnreadCountDTO{UnreadCount: s.unread}, nil
}

func (s *fakeMessageService) GetRecentUnread(context.Context) ([]*dto.RecentMessageDTO, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	return s.recent, nil
}

func newMessageRouter(svc service.MessageService, mw ...gin.HandlerFunc) *gin.Engine {
	h := NewMessageHandler(svc)
	r := gin.New()
	group := r.Group("/messages", mw...)
	group.GET("/recent", h.GetRecentUnread)
	group.GET("/count", h.GetUnreadCount)
	group.PATCH("/:id/read", h.MarkRead)
	group.DELETE("/:id", h.Delete)
	return r
}

func TestMarkMessageReadEndpoint(t *testing.T) {
	svc := &fakeMessageService{}
	r := newMessageRouter(svc, withUser(2))

	w := perform(r, http.MethodPatch, "/messages/abc123/read", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Message marked as read"}`, w.Body.String())
	assert.Equal(t, []string{"abc123"}, svc.markedIDs)
}

func TestMarkMessageReadNotFound(t *testing.T) {
	svc := &fakeMessageService{markReadErr: service.ErrMessageNotFound}
	r := newMessageRouter(svc, withUser(2))

	w := perform(r, http.MethodPatch, "/messages/abc123/read", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, w.Body.String())
}

func TestDeleteMessageEndpoint(t *testing.T) {
	r := newMessageRouter(&fakeMessageService{}, withUser(2))

	w := perform(r, http.MethodDelete, "/messages/abc123", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Message deleted successfully"}`, w.Body.String())
}

func TestUnreadCountEndpoint(t *testing.T) {
	r := newMessageRouter(&fakeMessageService{unread: 3}, withUser(2))

	w := perform(r, http.MethodGet, "/messages/count", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unreadCount":3}`, w.Body.String())
}

// 没有可解析身份的请求在碰到存储之前就被拒绝
func TestAuthRequired(t *testing.T) {
	r := newMessageRouter(&fakeMessageService{}, middleware.AuthMiddleware())

	w := perform(r, http.MethodPatch, "/messages/abc123/read", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())
}

func TestRecentFeedSuccess(t *testing.T) {
	svc := &fakeMessageService{recent: []*dto.RecentMessageDTO{
		{
			MessageDTO: dto.MessageDTO{ID: "m1", FromID: 1, ToID: 2, Content: "见过类似的"},
			SenderName: "小林",
		},
	}}
	r := newMessageRouter(svc)

	w := perform(r, http.MethodGet, "/messages/recent", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"senderName":"小林"`)
}

// 查询失败时返回空数组而不是错误体
func TestRecentFeedFailureReturnsEmptyArray(t *testing.T) {
	r := newMessageRouter(&fakeMessageService{recentErr: assert.AnError})

	w := perform(r, http.MethodGet, "/messages/recent", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
