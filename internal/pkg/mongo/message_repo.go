package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *Message) error
	GetInbox(ctx context.Context, userID uint64, limit, offset int64) ([]*Message, error)
	MarkAsRead(ctx context.Context, userID uint64, msgID string) (*Message, error)
	Delete(ctx context.Context, userID uint64, msgID string) (*Message, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	GetRecentUnread(ctx context.Context, since time.Time, limit int64) ([]*Message, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("message"),
	}
}

// CreateMessage 插入新私信
func (s *messageRepoImpl) CreateMessage(ctx context.Context, msg *Message) error {
	res, err := s.col.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// GetInbox 分页获取用户收件箱 (按时间倒序)
func (s *messageRepoImpl) GetInbox(ctx context.Context, userID uint64, limit, offset int64) ([]*Message, error) {
	filter := bson.M{"to_id": userID}
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

	var list []*Message
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkAsRead 归属范围内原子置读，返回更新后的文档。
// 过滤条件同时携带 _id 与 to_id：记录不存在与不归属在结果上不可区分，
// 避免向调用方泄露他人私信的存在性。重复置读返回当前状态，不视为错误。
func (s *messageRepoImpl) MarkAsRead(ctx context.Context, userID uint64, msgID string) (*Message, error) {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	filter := bson.M{"_id": objectID, "to_id": userID}
	update := bson.M{"$set": bson.M{"is_read": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var msg Message
	if err = s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Delete 归属范围内原子删除，返回被删除的文档
func (s *messageRepoImpl) Delete(ctx context.Context, userID uint64, msgID string) (*Message, error) {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	filter := bson.M{"_id": objectID, "to_id": userID}

	var msg Message
	if err = s.col.FindOneAndDelete(ctx, filter).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetUnreadCount 获取用户的未读私信总数
func (s *messageRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	filter := bson.M{"to_id": userID, "is_read": false}
	return s.col.CountDocuments(ctx, filter)
}

// GetRecentUnread 拉取时间窗口内仍未读的私信 (按时间倒序)。
// 每次调用都是一次全新查询，服务端不保留游标状态。
func (s *messageRepoImpl) GetRecentUnread(ctx context.Context, since time.Time, limit int64) ([]*Message, error) {
	filter := bson.M{
		"created_at": bson.M{"$gte": since},
		"is_read":    false,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Message
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
