package dto

// SendMessageDTO 发送私信请求体
type SendMessageDTO struct {
	ToID    uint64 `json:"to" binding:"required"`
	Content string `json:"content" binding:"required,max=2000"`
}

// MessageDTO 私信响应
type MessageDTO struct {
	ID        string `json:"id"`
	FromID    uint64 `json:"from"`
	ToID      uint64 `json:"to"`
	Content   string `json:"content"`
	IsRead    bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

// RecentMessageDTO 近期未读流的列表项，附带发件人展示信息
type RecentMessageDTO struct {
	MessageDTO
	SenderName   string `json:"senderName"`
	SenderAvatar string `json:"senderAvatar,omitempty"`
}
