package service

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/model"
	"Reunite/internal/pkg/consts"
	"Reunite/internal/pkg/mongo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageFixture struct {
	svc        MessageService
	msgRepo    *fakeMessageRepo
	userRepo   *fakeUserRepo
	notifyRepo *fakeNotificationRepo
	cache      *fakeUnreadCache
}

func newMessageFixture(t *testing.T, window time.Duration, limit int64) *messageFixture {
	t.Helper()
	msgRepo := newFakeMessageRepo()
	userRepo := newFakeUserRepo()
	notifyRepo := newFakeNotificationRepo()
	cache := newFakeUnreadCache()
	notifySvc := NewNotificationService(notifyRepo, cache)
	return &messageFixture{
		svc:        NewMessageService(msgRepo, userRepo, notifySvc, cache, window, limit),
		msgRepo:    msgRepo,
		userRepo:   userRepo,
		notifyRepo: notifyRepo,
		cache:      cache,
	}
}

func seedMessage(t *testing.T, repo *fakeMessageRepo, from, to uint64, createdAt time.Time, read bool) *mongo.Message {
	t.Helper()
	m := &mongo.Message{
		FromID:    from,
		ToID:      to,
		Content:   "在西门附近见过类似的",
		IsRead:    read,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.CreateMessage(context.Background(), m))
	return m
}

// A 发给 B 的私信：B 置读成功，A 置读拿 404，B 的未读数随之归零
func TestMarkMessageReadOwnershipScenario(t *testing.T) {
	f := newMessageFixture(t, 0, 0)
	ctx := context.Background()
	m := seedMessage(t, f.msgRepo, 1, 2, time.Now(), false)

	count, err := f.svc.GetUnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.UnreadCount)

	// 发件人不能动收件人的读状态
	err = f.svc.MarkRead(ctx, 1, m.ID.Hex())
	assert.ErrorIs(t, err, ErrMessageNotFound)

	require.NoError(t, f.svc.MarkRead(ctx, 2, m.ID.Hex()))

	// 重复置读是无操作成功
	require.NoError(t, f.svc.MarkRead(ctx, 2, m.ID.Hex()))

	count, err = f.svc.GetUnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.UnreadCount)
}

func TestDeleteMessageOwnership(t *testing.T) {
	f := newMessageFixture(t, 0, 0)
	ctx := context.Background()
	m := seedMessage(t, f.msgRepo, 1, 2, time.Now(), false)

	err := f.svc.Delete(ctx, 1, m.ID.Hex())
	assert.ErrorIs(t, err, ErrMessageNotFound)

	require.NoError(t, f.svc.Delete(ctx, 2, m.ID.Hex()))

	// 已删除的记录再删除按不存在处理
	err = f.svc.Delete(ctx, 2, m.ID.Hex())
	assert.ErrorIs(t, err, ErrMessageNotFound)

	count, err := f.svc.GetUnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.UnreadCount)
}

func TestSendMessageCreatesNotification(t *testing.T) {
	f := newMessageFixture(t, 0, 0)
	ctx := context.Background()
	f.userRepo.add(&model.User{ID: 2, Nickname: "阿杰"})

	_, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageDTO{ToID: 1, Content: "hi"})
	assert.ErrorIs(t, err, ErrMessageToSelf)

	_, err = f.svc.SendMessage(ctx, 1, &dto.SendMessageDTO{ToID: 99, Content: "hi"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	msg, err := f.svc.SendMessage(ctx, 1, &dto.SendMessageDTO{ToID: 2, Content: "你好，我可能见过它"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.IsRead)

	notices := f.notifyRepo.byUser(2)
	require.Len(t, notices, 1)
	assert.Equal(t, consts.NotifyTypeMessageReceived, notices[0].Type)
	assert.Equal(t, msg.ID, notices[0].RelatedID)
}

func TestRecentUnreadWindowAndEnrichment(t *testing.T) {
	f := newMessageFixture(t, 5*time.Minute, 10)
	ctx := context.Background()
	f.userRepo.add(&model.User{ID: 1, Nickname: "小林"})

	now := time.Now()
	inWindow := seedMessage(t, f.msgRepo, 1, 2, now.Add(-time.Minute), false)
	seedMessage(t, f.msgRepo, 1, 2, now.Add(-10*time.Minute), false) // 窗口外
	seedMessage(t, f.msgRepo, 1, 2, now.Add(-30*time.Second), true)  // 已读
	orphan := seedMessage(t, f.msgRepo, 77, 3, now.Add(-2*time.Minute), false)

	list, err := f.svc.GetRecentUnread(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// 按创建时间倒序
	assert.Equal(t, inWindow.ID.Hex(), list[0].ID)
	assert.Equal(t, orphan.ID.Hex(), list[1].ID)
	assert.Equal(t, "小林", list[0].SenderName)

	// 发件人解析不到也要保留记录，只是名字为空
	assert.Equal(t, "", list[1].SenderName)
}

func TestRecentUnreadLimit(t *testing.T) {
	f := newMessageFixture(t, 5*time.Minute, 2)
	ctx := context.Background()

	now := time.Now()
	seedMessage(t, f.msgRepo, 1, 2, now.Add(-3*time.Minute), false)
	middle := seedMessage(t, f.msgRepo, 1, 2, now.Add(-2*time.Minute), false)
	newest := seedMessage(t, f.msgRepo, 1, 2, now.Add(-time.Minute), false)

	list, err := f.svc.GetRecentUnread(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newest.ID.Hex(), list[0].ID)
	assert.Equal(t, middle.ID.Hex(), list[1].ID)
}

func TestMessageUnreadCountCache(t *testing.T) {
	f := newMessageFixture(t, 0, 0)
	ctx := context.Background()
	m := seedMessage(t, f.msgRepo, 1, 2, time.Now(), false)
	seedMessage(t, f.msgRepo, 1, 2, time.Now(), false)

	count, err := f.svc.GetUnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.UnreadCount)

	cached, ok, _ := f.cache.Get(ctx, messageUnreadKey(2))
	assert.True(t, ok)
	assert.Equal(t, int64(2), cached)

	require.NoError(t, f.svc.MarkRead(ctx, 2, m.ID.Hex()))
	_, ok, _ = f.cache.Get(ctx, messageUnreadKey(2))
	assert.False(t, ok)

	count, err = f.svc.GetUnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.UnreadCount)
}
