package job

import (
	"Reunite/internal/pkg/logger"
	"Reunite/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// 已读通知的保留天数
const readNotificationRetentionDays = 30

// NotificationCleanJob 清理早已读过的历史通知
type NotificationCleanJob struct {
	notifyRepo mongo.NotificationRepo
}

func NewNotificationCleanJob(notifyRepo mongo.NotificationRepo) *NotificationCleanJob {
	return &NotificationCleanJob{
		notifyRepo: notifyRepo,
	}
}

func (s *NotificationCleanJob) Run() {
	traceID := "job-notify-clean-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	cutoff := time.Now().AddDate(0, 0, -readNotificationRetentionDays)
	count, err := s.notifyRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		log.ErrorContext(ctx, "clean read notifications error", "err", err)
		return
	}

	if count > 0 {
		log.InfoContext(ctx, "read notifications cleaned", "count", count, "cutoff", cutoff)
	}
}
