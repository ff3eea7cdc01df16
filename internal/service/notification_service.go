package service

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/pkg/consts"
	"Reunite/internal/pkg/mongo"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

// 通知类型闭集，集合外的类型一律拒收
var validNotifyTypes = map[string]struct{}{
	consts.NotifyTypeMatchFound:      {},
	consts.NotifyTypeMessageReceived: {},
	consts.NotifyTypeReportResolved:  {},
	consts.NotifyTypeCaseResolved:    {},
}

type NotificationService interface {
	CreateNotification(ctx context.Context, d *dto.CreateNotificationDTO) error
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.UnreadCountDTO, error)
	MarkRead(ctx context.Context, userID uint64, notifyID string) (*dto.NotificationDTO, error)
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
}

type notificationServiceImpl struct {
	notifyRepo mongo.NotificationRepo
	cache      UnreadCache
}

func NewNotificationService(notifyRepo mongo.NotificationRepo, cache UnreadCache) NotificationService {
	return &notificationServiceImpl{
		notifyRepo: notifyRepo,
		cache:      cache,
	}
}

func notifyUnreadKey(userID uint64) string {
	return consts.NotifyUnreadKey + strconv.FormatUint(userID, 10)
}

// CreateNotification 落库一条未读通知，来源是 Kafka 事件或其他服务
func (s *notificationServiceImpl) CreateNotification(ctx context.Context, d *dto.CreateNotificationDTO) error {
	if d.UserID == 0 || d.Message == "" {
		return ErrParamInvalid
	}
	if _, ok := validNotifyTypes[d.Type]; !ok {
		return ErrNotifyTypeInvalid
	}

	n := &mongo.Notification{
		UserID:    d.UserID,
		Type:      d.Type,
		Title:     d.Title,
		Message:   d.Message,
		RelatedID: d.RelatedID,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.notifyRepo.CreateNotification(ctx, n); err != nil {
		return err
	}

	// 未读集合变了，同步删缓存
	if err := s.cache.Invalidate(ctx, notifyUnreadKey(d.UserID)); err != nil {
		slog.WarnContext(ctx, "invalidate notify unread cache failed", "user_id", d.UserID, "err", err)
	}
	return nil
}

func (s *notificationServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.NotificationDTO, error) {
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.notifyRepo.GetNotificationList(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		res = append(res, toNotificationDTO(n))
	}
	return res, nil
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.UnreadCountDTO, error) {
	key := notifyUnreadKey(userID)
	if count, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return &dto.UnreadCountDTO{UnreadCount: count}, nil
	}

	count, err := s.notifyRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, count); err != nil {
		slog.WarnContext(ctx, "set notify unread cache failed", "user_id", userID, "err", err)
	}
	return &dto.UnreadCountDTO{UnreadCount: count}, nil
}

// MarkRead 标记单条已读。重复标记直接返回当前状态，read_at 不变。
func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, notifyID string) (*dto.NotificationDTO, error) {
	n, err := s.notifyRepo.MarkAsRead(ctx, userID, notifyID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, notifyUnreadKey(userID)); err != nil {
		slog.WarnContext(ctx, "invalidate notify unread cache failed", "user_id", userID, "err", err)
	}
	return toNotificationDTO(n), nil
}

// MarkAllRead 一键已读，返回本次实际翻转的条数，0 也算成功
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	count, err := s.notifyRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Invalidate(ctx, notifyUnreadKey(userID)); err != nil {
		slog.WarnContext(ctx, "invalidate notify unread cache failed", "user_id", userID, "err", err)
	}
	return count, nil
}

func toNotificationDTO(n *mongo.Notification) *dto.NotificationDTO {
	d := &dto.NotificationDTO{}
	_ = copier.Copy(d, n)
	d.ID = n.ID.Hex()
	d.CreatedAt = n.CreatedAt.UTC().Format(time.RFC3339)
	if n.ReadAt != nil {
		readAt := n.ReadAt.UTC().Format(time.RFC3339)
		d.ReadAt = &readAt
	}
	return d
}
