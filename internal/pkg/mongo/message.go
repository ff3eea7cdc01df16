package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message 私信文档模型
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FromID    uint64             `bson:"from_id" json:"fromId"`     // 发送者ID
	ToID      uint64             `bson:"to_id" json:"toId"`         // 接收者ID (记录归属方)
	Content   string             `bson:"content" json:"content"`    // 文本内容
	IsRead    bool               `bson:"is_read" json:"isRead"`     // 是否已读
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
