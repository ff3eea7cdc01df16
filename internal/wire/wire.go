package wire

import (
	"Reunite/internal/api"
	"Reunite/internal/api/config"
	"Reunite/internal/api/handler"
	"Reunite/internal/job"
	"Reunite/internal/pkg/cron"
	"Reunite/internal/pkg/kafka"
	"Reunite/internal/pkg/mongo"
	"Reunite/internal/repository"
	"Reunite/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	mongoDriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongoDriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	reportRepo := repository.NewReportRepo(db)
	messageRepo := mongo.NewMessageRepo(mongoDB)
	notifyRepo := mongo.NewNotificationRepo(mongoDB)

	unreadCache := service.NewRedisUnreadCache()
	viewCounter := service.NewRedisViewCounter()

	userService := service.NewUserService(userRepo)
	notifyService := service.NewNotificationService(notifyRepo, unreadCache)
	messageService := service.NewMessageService(
		messageRepo, userRepo, notifyService, unreadCache,
		time.Duration(cfg.Feed.WindowSeconds)*time.Second, int64(cfg.Feed.PageSize),
	)
	reportService := service.NewReportService(reportRepo, userRepo, notifyService, viewCounter)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		MessageHandler:      handler.NewMessageHandler(messageService),
		NotificationHandler: handler.NewNotificationHandler(notifyService),
		ReportHandler:       handler.NewReportHandler(reportService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, notifyService)
	if err != nil {
		return nil, err
	}

	viewFlushJob := job.NewViewFlushJob(reportRepo)
	notificationCleanJob := job.NewNotificationCleanJob(notifyRepo)
	cronMgr := cron.NewCronManager(viewFlushJob, notificationCleanJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
