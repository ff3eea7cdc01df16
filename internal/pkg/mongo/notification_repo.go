package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *Notification) error
	GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*Notification, error)
	MarkAsRead(ctx context.Context, userID uint64, notifyID string) (*Notification, error)
	MarkAllAsRead(ctx context.Context, userID uint64) (int64, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection("notification"),
	}
}

// CreateNotification 插入新通知
func (s *notificationRepoImpl) CreateNotification(ctx context.Context, n *Notification) error {
	res, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

// GetNotificationList 分页获取用户的通知列表 (按时间倒序)
func (s *notificationRepoImpl) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*Notification, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Notification
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkAsRead 归属范围内原子置读。read_at 仅在 false→true 的那次更新写入，
// 已读记录重复置读直接返回当前状态，read_at 不被覆盖（单向单调）。
func (s *notificationRepoImpl) MarkAsRead(ctx context.Context, userID uint64, notifyID string) (*Notification, error) {
	objectID, err := primitive.ObjectIDFromHex(notifyID)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	now := time.Now()
	filter := bson.M{"_id": objectID, "user_id": userID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n Notification
	err = s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n)
	if err == nil {
		return &n, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// 未命中：要么已是已读（幂等成功），要么不存在/不归属（统一 NotFound）
	err = s.col.FindOne(ctx, bson.M{"_id": objectID, "user_id": userID}).Decode(&n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAllAsRead 一键清除未读，返回实际翻转的条数。无未读时返回 0，不是错误。
// 整体不要求原子，但每条记录的翻转都是原子且幂等的，重试收敛到同一终态。
func (s *notificationRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64) (int64, error) {
	now := time.Now()
	filter := bson.M{"user_id": userID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": now}}

	res, err := s.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// GetUnreadCount 获取用户的未读通知总数
func (s *notificationRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	filter := bson.M{"user_id": userID, "is_read": false}
	return s.col.CountDocuments(ctx, filter)
}

// DeleteReadBefore 清理指定时间前的已读通知，返回删除条数
func (s *notificationRepoImpl) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{"is_read": true, "read_at": bson.M{"$lt": cutoff}}
	res, err := s.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
