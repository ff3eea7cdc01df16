package cron

import (
	"Reunite/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine               *cron.Cron
	viewFlushJob         *job.ViewFlushJob
	notificationCleanJob *job.NotificationCleanJob
}

func NewCronManager(viewFlushJob *job.ViewFlushJob, notificationCleanJob *job.NotificationCleanJob) *Manager {
	return &Manager{
		engine:               cron.New(cron.WithSeconds()),
		viewFlushJob:         viewFlushJob,
		notificationCleanJob: notificationCleanJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@every 1m", s.viewFlushJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.notificationCleanJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
