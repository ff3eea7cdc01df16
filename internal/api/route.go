package api

import (
	"Reunite/internal/api/middleware"
	"Reunite/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", group.UserHandler.Register)
		authGroup.POST("/login", group.UserHandler.Login)

		loggedGroup := authGroup.Group("")
		loggedGroup.Use(middleware.AuthMiddleware())
		{
			loggedGroup.POST("/logout", group.UserHandler.Logout)
			loggedGroup.GET("/me", group.UserHandler.GetUserInfo)
		}
	}

	messageGroup := r.Group("/messages")
	{
		// 公开的轮询流，不看登录态
		messageGroup.GET("/recent", group.MessageHandler.GetRecentUnread)

		loggedGroup := messageGroup.Group("")
		loggedGroup.Use(middleware.AuthMiddleware())
		{
			loggedGroup.POST("", group.MessageHandler.SendMessage)
			loggedGroup.GET("", group.MessageHandler.GetInbox)
			loggedGroup.GET("/count", group.MessageHandler.GetUnreadCount)
			loggedGroup.PATCH("/:id/read", group.MessageHandler.MarkRead)
			loggedGroup.DELETE("/:id", group.MessageHandler.Delete)
		}
	}

	notifyGroup := r.Group("/notifications")
	notifyGroup.Use(middleware.AuthMiddleware())
	{
		notifyGroup.GET("", group.NotificationHandler.GetNotificationList)
		notifyGroup.GET("/count", group.NotificationHandler.GetUnreadCount)
		notifyGroup.PATCH("/read-all", group.NotificationHandler.MarkAllRead)
		notifyGroup.PATCH("/:id", group.NotificationHandler.MarkRead)
	}

	reportGroup := r.Group("/report")
	{
		reportGroup.POST("/:id/view", group.ReportHandler.RecordView)

		authOptGroup := reportGroup.Group("")
		authOptGroup.Use(middleware.AuthOptionalMiddleware())
		{
			authOptGroup.GET("/:id", group.ReportHandler.GetReport)
		}

		loggedGroup := reportGroup.Group("")
		loggedGroup.Use(middleware.AuthMiddleware())
		{
			loggedGroup.PATCH("/:id/resolve", group.ReportHandler.ResolveReport)
		}
	}

	return r
}
