package service

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/model"
	"Reunite/internal/pkg/consts"
	"Reunite/internal/pkg/minio"
	"Reunite/internal/pkg/mongo"
	"Reunite/internal/repository"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultFeedWindow = 5 * time.Minute
	defaultFeedLimit  = 10
)

type MessageService interface {
	SendMessage(ctx context.Context, senderID uint64, d *dto.SendMessageDTO) (*dto.MessageDTO, error)
	GetInbox(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.MessageDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	Delete(ctx context.Context, userID uint64, msgID string) error
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.UnreadCountDTO, error)
	GetRecentUnread(ctx context.Context) ([]*dto.RecentMessageDTO, error)
}

type messageServiceImpl struct {
	messageRepo mongo.MessageRepo
	userRepo    repository.UserRepo
	notifySvc   NotificationService
	cache       UnreadCache
	feedWindow  time.Duration
	feedLimit   int64
}

func NewMessageService(messageRepo mongo.MessageRepo, userRepo repository.UserRepo,
	notifySvc NotificationService, cache UnreadCache, feedWindow time.Duration, feedLimit int64) MessageService {
	if feedWindow <= 0 {
		feedWindow = defaultFeedWindow
	}
	if feedLimit <= 0 {
		feedLimit = defaultFeedLimit
	}
	return &messageServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifySvc:   notifySvc,
		cache:       cache,
		feedWindow:  feedWindow,
		feedLimit:   feedLimit,
	}
}

func messageUnreadKey(userID uint64) string {
	return consts.MessageUnreadKey + strconv.FormatUint(userID, 10)
}

// SendMessage 发送私信并给收件人投递一条 message_received 通知
func (s *messageServiceImpl) SendMessage(ctx context.Context, senderID uint64, d *dto.SendMessageDTO) (*dto.MessageDTO, error) {
	if d.ToID == senderID {
		return nil, ErrMessageToSelf
	}

	recipient, err := s.userRepo.GetUserById(ctx, d.ToID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	msg := &mongo.Message{
		FromID:    senderID,
		ToID:      d.ToID,
		Content:   d.Content,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, messageUnreadKey(d.ToID)); err != nil {
		slog.WarnContext(ctx, "invalidate message unread cache failed", "user_id", d.ToID, "err", err)
	}

	// 通知投递失败不影响私信本身
	notifyDTO := &dto.CreateNotificationDTO{
		UserID:    d.ToID,
		Type:      consts.NotifyTypeMessageReceived,
		Title:     "收到新私信",
		Message:   d.Content,
		RelatedID: msg.ID.Hex(),
	}
	if err := s.notifySvc.CreateNotification(ctx, notifyDTO); err != nil {
		slog.WarnContext(ctx, "create message_received notification failed", "user_id", d.ToID, "err", err)
	}

	return toMessageDTO(msg), nil
}

func (s *messageServiceImpl) GetInbox(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.MessageDTO, error) {
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.messageRepo.GetInbox(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(list))
	for _, m := range list {
		res = append(res, toMessageDTO(m))
	}
	return res, nil
}

// MarkRead 收件人标记单条已读。归属过滤和更新是同一条 Mongo 命令，
// 非收件人拿到的结果与记录不存在无法区分。
func (s *messageServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	_, err := s.messageRepo.MarkAsRead(ctx, userID, msgID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrMessageNotFound
		}
		return err
	}

	if err := s.cache.Invalidate(ctx, messageUnreadKey(userID)); err != nil {
		slog.WarnContext(ctx, "invalidate message unread cache failed", "user_id", userID, "err", err)
	}
	return nil
}

// Delete 收件人删除自己的私信，未读的删除会同步反映到未读数
func (s *messageServiceImpl) Delete(ctx context.Context, userID uint64, msgID string) error {
	_, err := s.messageRepo.Delete(ctx, userID, msgID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrMessageNotFound
		}
		return err
	}

	if err := s.cache.Invalidate(ctx, messageUnreadKey(userID)); err != nil {
		slog.WarnContext(ctx, "invalidate message unread cache failed", "user_id", userID, "err", err)
	}
	return nil
}

func (s *messageServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.UnreadCountDTO, error) {
	key := messageUnreadKey(userID)
	if count, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return &dto.UnreadCountDTO{UnreadCount: count}, nil
	}

	count, err := s.messageRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, count); err != nil {
		slog.WarnContext(ctx, "set message unread cache failed", "user_id", userID, "err", err)
	}
	return &dto.UnreadCountDTO{UnreadCount: count}, nil
}

// GetRecentUnread 拉取窗口内的全站未读私信，按创建时间倒序，
// 每次轮询都是全新查询，服务端不保存游标
func (s *messageServiceImpl) GetRecentUnread(ctx context.Context) ([]*dto.RecentMessageDTO, error) {
	since := time.Now().Add(-s.feedWindow)
	list, err := s.messageRepo.GetRecentUnread(ctx, since, s.feedLimit)
	if err != nil {
		return nil, err
	}

	senders := s.loadSenders(ctx, list)

	res := make([]*dto.RecentMessageDTO, 0, len(list))
	for _, m := range list {
		d := &dto.RecentMessageDTO{MessageDTO: *toMessageDTO(m)}
		if sender, ok := senders[m.FromID]; ok {
			d.SenderName = sender.Nickname
			if sender.AvatarURL != "" {
				d.SenderAvatar = minio.GetPublicURL(sender.AvatarURL)
			}
		}
		res = append(res, d)
	}
	return res, nil
}

// loadSenders 批量补全发件人信息，失败只降级不报错
func (s *messageServiceImpl) loadSenders(ctx context.Context, list []*mongo.Message) map[uint64]*model.User {
	idSet := make(map[uint64]struct{}, len(list))
	ids := make([]uint64, 0, len(list))
	for _, m := range list {
		if _, ok := idSet[m.FromID]; ok {
			continue
		}
		idSet[m.FromID] = struct{}{}
		ids = append(ids, m.FromID)
	}
	if len(ids) == 0 {
		return nil
	}

	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		slog.WarnContext(ctx, "load message senders failed", "err", err)
		return nil
	}

	senders := make(map[uint64]*model.User, len(users))
	for _, u := range users {
		senders[u.ID] = u
	}
	return senders
}

func toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	d := &dto.MessageDTO{}
	_ = copier.Copy(d, m)
	d.ID = m.ID.Hex()
	d.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
	return d
}
