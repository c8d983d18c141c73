package wire

import (
	"CAConnect/internal/api"
	"CAConnect/internal/api/config"
	"CAConnect/internal/api/handler"
	"CAConnect/internal/job"
	"CAConnect/internal/pkg/cron"
	"CAConnect/internal/pkg/es"
	"CAConnect/internal/pkg/kafka"
	"CAConnect/internal/pkg/linkpreview"
	pkgmongo "CAConnect/internal/pkg/mongo"
	"CAConnect/internal/repository"
	"CAConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer holds every top level component the app runs.
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	caProfileRepo := repository.NewCAProfileRepo(db)
	caMetricRepo := repository.NewCAMetricRepo(db)
	leadRepo := repository.NewLeadRepo(db)
	engagementRepo := repository.NewLeadEngagementRepo(db)
	postRepo := repository.NewPostRepo(db)
	reactionRepo := repository.NewReactionRepo(db)
	contactRepo := repository.NewContactRequestRepo(db)

	inboxRepo := pkgmongo.NewInboxRepo(mongoDB)

	var caES es.CARepo
	if es.Client != nil {
		caES = es.NewCARepo(es.Client)
	}

	previews := linkpreview.NewFetcher()

	smsService := service.NewSmsService()
	userService := service.NewUserService(userRepo, roleRepo, smsService, caES)
	caService := service.NewCAService(caProfileRepo, caMetricRepo, caES)
	leadService := service.NewLeadService(leadRepo, engagementRepo)
	engagementService := service.NewLeadEngagementService(engagementRepo, leadRepo)
	reactionService := service.NewReactionService(reactionRepo, postRepo)
	postService := service.NewPostService(postRepo, reactionService, userService, previews)
	contactService := service.NewContactService(contactRepo, caProfileRepo, userService, inboxRepo)
	notificationService := service.NewNotificationService(inboxRepo)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService, smsService),
		CAHandler:           handler.NewCAHandler(caService),
		LeadHandler:         handler.NewLeadHandler(leadService, engagementService),
		PostHandler:         handler.NewPostHandler(postService),
		ReactionHandler:     handler.NewReactionHandler(reactionService),
		ContactHandler:      handler.NewContactHandler(contactService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		WSHandler:           handler.NewWsHandler(),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, postRepo, leadRepo, inboxRepo)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewReactionSyncJob(reactionService),
		job.NewLeadSyncJob(engagementRepo),
		job.NewCAMetricJob(engagementRepo, contactRepo, caMetricRepo),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
