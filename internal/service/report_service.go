package service

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/pkg/consts"
	"Reunite/internal/pkg/minio"
	"Reunite/internal/repository"
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
)

type ReportService interface {
	GetReport(ctx context.Context, id uint64) (*dto.ReportDTO, error)
	RecordView(ctx context.Context, id uint64) (*dto.ViewCountDTO, error)
	ResolveReport(ctx context.Context, userID, id uint64) error
}

type reportServiceImpl struct {
	reportRepo repository.ReportRepo
	userRepo   repository.UserRepo
	notifySvc  NotificationService
	counter    ViewCounter
}

func NewReportService(reportRepo repository.ReportRepo, userRepo repository.UserRepo,
	notifySvc NotificationService, counter ViewCounter) ReportService {
	return &reportServiceImpl{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		notifySvc:  notifySvc,
		counter:    counter,
	}
}

func (s *reportServiceImpl) GetReport(ctx context.Context, id uint64) (*dto.ReportDTO, error) {
	report, err := s.reportRepo.GetReportById(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	d := &dto.ReportDTO{}
	_ = copier.Copy(d, report)
	d.CreatedAt = report.CreatedAt.UTC().Format(time.RFC3339)

	// 浏览量以 Redis 实时值为准，计数器没热起来就用快照
	if total, ok, err := s.counter.Current(ctx, id); err == nil && ok {
		d.ViewCount = total
	}

	owner, err := s.userRepo.GetUserById(ctx, report.UserID)
	if err == nil && owner != nil {
		d.OwnerName = owner.Nickname
		if owner.AvatarURL != "" {
			d.OwnerAvatar = minio.GetPublicURL(owner.AvatarURL)
		}
	}

	return d, nil
}

// RecordView 记录一次浏览并返回本次浏览之后的精确总数。
// 计数器冷启动时先用 SETNX 以行内快照做起点，再做原子自增。
func (s *reportServiceImpl) RecordView(ctx context.Context, id uint64) (*dto.ViewCountDTO, error) {
	report, err := s.reportRepo.GetReportById(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	if err := s.counter.Seed(ctx, id, report.ViewCount); err != nil {
		return nil, err
	}
	total, err := s.counter.Incr(ctx, id)
	if err != nil {
		return nil, err
	}

	// 脏标失败只会延迟回写，不影响本次计数
	if err := s.counter.MarkDirty(ctx, id); err != nil {
		slog.WarnContext(ctx, "mark report view dirty failed", "report_id", id, "err", err)
	}

	return &dto.ViewCountDTO{ViewCount: total}, nil
}

// ResolveReport 报告归属者标记已解决，并给归属者投递 report_resolved 通知。
// 非归属者与报告不存在返回同一个错误。
func (s *reportServiceImpl) ResolveReport(ctx context.Context, userID, id uint64) error {
	report, err := s.reportRepo.GetReportById(ctx, id)
	if err != nil {
		return err
	}
	if report == nil || report.UserID != userID {
		return ErrReportNotFound
	}
	if report.Status == consts.ReportStatusResolved {
		return nil
	}

	if _, err := s.reportRepo.UpdateStatus(ctx, id, consts.ReportStatusResolved); err != nil {
		return err
	}

	notifyDTO := &dto.CreateNotificationDTO{
		UserID:    report.UserID,
		Type:      consts.NotifyTypeReportResolved,
		Title:     "报告已解决",
		Message:   report.Title,
		RelatedID: strconv.FormatUint(id, 10),
	}
	if err := s.notifySvc.CreateNotification(ctx, notifyDTO); err != nil {
		slog.WarnContext(ctx, "create report_resolved notification failed", "report_id", id, "err", err)
	}
	return nil
}
