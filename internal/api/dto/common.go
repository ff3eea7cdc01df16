package dto

// UnreadCountDTO 未读数返回
type UnreadCountDTO struct {
	UnreadCount int64 `json:"unreadCount"`
}

// ViewCountDTO 浏览量返回
type ViewCountDTO struct {
	ViewCount int64 `json:"viewCount"`
}
