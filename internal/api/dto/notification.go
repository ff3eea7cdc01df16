package dto

// CreateNotificationDTO 创建通知，来源是 Kafka 事件或其他服务
type CreateNotificationDTO struct {
	UserID    uint64 `json:"userId" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Title     string `json:"title"`
	Message   string `json:"message" binding:"required"`
	RelatedID string `json:"relatedId"`
}

// NotificationDTO 通知响应
type NotificationDTO struct {
	ID        string  `json:"id"`
	UserID    uint64  `json:"userId"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	RelatedID string  `json:"relatedId,omitempty"`
	IsRead    bool    `json:"read"`
	ReadAt    *string `json:"readAt,omitempty"`
	CreatedAt string  `json:"createdAt"`
}
