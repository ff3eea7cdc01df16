package api

import "Reunite/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	MessageHandler      *handler.MessageHandler
	NotificationHandler *handler.NotificationHandler
	ReportHandler       *handler.ReportHandler
}
