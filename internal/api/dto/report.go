package dto

// ReportDTO 报告详情响应
type ReportDTO struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"userId"`
	OwnerName   string `json:"ownerName"`
	OwnerAvatar string `json:"ownerAvatar,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      int8   `json:"status"`
	ViewCount   int64  `json:"viewCount"`
	CreatedAt   string `json:"createdAt"`
}
