package repository

import (
	"Reunite/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ReportRepo interface {
	GetReportById(ctx context.Context, id uint64) (*model.Report, error)
	ExistsById(ctx context.Context, id uint64) (bool, error)
	CreateReport(ctx context.Context, report *model.Report) error
	UpdateStatus(ctx context.Context, id uint64, status int8) (int64, error)
	AddViewCount(ctx context.Context, id uint64, delta int64) error
}

type reportRepoImpl struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepo {
	return &reportRepoImpl{db: db}
}

func (s *reportRepoImpl) GetReportById(ctx context.Context, id uint64) (*model.Report, error) {
	report := &model.Report{}
	result := s.db.WithContext(ctx).First(report, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "query report by id")
	}

	return report, nil
}

func (s *reportRepoImpl) ExistsById(ctx context.Context, id uint64) (bool, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ?", id).
		Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "check report existence")
	}
	return count > 0, nil
}

func (s *reportRepoImpl) CreateReport(ctx context.Context, report *model.Report) error {
	if err := s.db.WithContext(ctx).Create(report).Error; err != nil {
		return errors.Wrap(err, "create report")
	}
	return nil
}

// UpdateStatus 仅报告归属者以外的状态流转由上层控制，这里只负责写入
func (s *reportRepoImpl) UpdateStatus(ctx context.Context, id uint64, status int8) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "update report status")
	}
	return result.RowsAffected, nil
}

// AddViewCount 单条 SQL 原子累加浏览量快照列，避免应用层读改写
func (s *reportRepoImpl) AddViewCount(ctx context.Context, id uint64, delta int64) error {
	result := s.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta))
	if result.Error != nil {
		return errors.Wrap(result.Error, "flush report view count")
	}
	return nil
}
