package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 系统通知文档模型
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    uint64             `bson:"user_id" json:"userId"`               // 通知归属用户ID
	Type      string             `bson:"type" json:"type"`                    // match_found / message_received / report_resolved / case_resolved
	Title     string             `bson:"title" json:"title"`                  // 标题
	Message   string             `bson:"message" json:"message"`              // 展示文案
	RelatedID string             `bson:"related_id,omitempty" json:"relatedId"` // 关联资源ID (报告/匹配/私信)
	IsRead    bool               `bson:"is_read" json:"isRead"`               // 是否已读
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"readAt"`     // 已读时间，仅在首次置读时写入
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
