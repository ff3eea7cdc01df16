package model

import (
	"time"
)

// Report 寻人/寻物报告。ViewCount 为持久化的浏览量快照，
// 实时计数在 Redis，由定时任务周期性回写本列。
type Report struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"not null;index:idx_user_id" json:"user_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      int8      `gorm:"not null;default:0" json:"status"` // 0:进行中, 1:已解决, 2:已关闭
	ViewCount   int64     `gorm:"not null;default:0" json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (Report) TableName() string {
	return "reports"
}
