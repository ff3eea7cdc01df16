package job

import (
	"Reunite/internal/pkg/consts"
	"Reunite/internal/pkg/logger"
	"Reunite/internal/pkg/redis"
	"Reunite/internal/pkg/util"
	"Reunite/internal/repository"
	"context"
	log "log/slog"
	"strconv"

	"github.com/google/uuid"
)

// ViewFlushJob 把 Redis 里的实时浏览量回写到报告行的快照列。
// 先把脏集合整体改名，回写期间产生的新脏标进下一轮。
type ViewFlushJob struct {
	reportRepo repository.ReportRepo
}

func NewViewFlushJob(reportRepo repository.ReportRepo) *ViewFlushJob {
	return &ViewFlushJob{
		reportRepo: reportRepo,
	}
}

func (s *ViewFlushJob) Run() {
	traceID := "job-view-flush-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	processingKey := consts.ReportViewDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.ReportViewDirtyKey, processingKey); err != nil {
		// 没有脏数据
		return
	}

	ids, err := redis.SMembers(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get report view dirty set error", "err", err)
		return
	}

	flushed := 0
	for _, idStr := range ids {
		reportID := util.StrToUint64(idStr)
		if reportID == 0 {
			continue
		}

		if err := s.flushOne(ctx, reportID, idStr); err != nil {
			log.ErrorContext(ctx, "flush report view count error", "report_id", reportID, "err", err)
			// 回写失败放回脏集合，下一轮重试
			if err := redis.SAdd(ctx, consts.ReportViewDirtyKey, idStr); err != nil {
				log.ErrorContext(ctx, "requeue dirty report error", "report_id", reportID, "err", err)
			}
			continue
		}
		flushed++
	}

	if err := redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete processing set error", "err", err)
	}

	if flushed > 0 {
		log.InfoContext(ctx, "report view counts flushed", "count", flushed)
	}
}

func (s *ViewFlushJob) flushOne(ctx context.Context, reportID uint64, idStr string) error {
	report, err := s.reportRepo.GetReportById(ctx, reportID)
	if err != nil {
		return err
	}
	if report == nil {
		// 报告已不在了，计数器一并清掉
		return redis.DeleteKey(ctx, consts.ReportViewKey+idStr)
	}

	value, err := redis.GetValue(ctx, consts.ReportViewKey+idStr)
	if err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	total, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return err
	}

	delta := total - report.ViewCount
	if delta <= 0 {
		return nil
	}
	return s.reportRepo.AddViewCount(ctx, reportID, delta)
}
