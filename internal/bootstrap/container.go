package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sycophancy-survey-be/internal/config"
	"sycophancy-survey-be/internal/controller"
	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/internal/pkg/mailer"
	"sycophancy-survey-be/internal/pkg/serverutils"
	"sycophancy-survey-be/internal/repository/memory"
	"sycophancy-survey-be/internal/repository/unitofwork"
	"sycophancy-survey-be/internal/service"
	"sycophancy-survey-be/internal/websocket"
	"sycophancy-survey-be/pkg/llm/openrouter"
	pkgnats "sycophancy-survey-be/pkg/nats"
	"sycophancy-survey-be/pkg/relay"
	"sycophancy-survey-be/pkg/survey"
)

// SurveyEventsTopic is the in-process bus topic every survey event flows
// through before fanning out to the dashboard feed and NATS.
const SurveyEventsTopic = "SURVEY_EVENTS"

type Container struct {
	// Controllers
	SurveyController   controller.ISurveyController
	WorkflowController controller.IWorkflowController
	ChatController     controller.IChatController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS (optional external mirror)
	var natsPub *pkgnats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pkgnats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// Redis (optional; session slots fall back to the in-process cache)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		client := redis.NewClient(opt)
		if _, err := client.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		} else {
			rdb = client
		}
	}

	// WebSocket Hub for the admin live feed
	wsLogger := logger.NewIsolatedLogger("logs/dashboard.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Session slot storage
	sessionTTL := time.Duration(cfg.Survey.SessionTTLHours) * time.Hour
	var storeFactory service.StoreFactory
	if rdb != nil {
		storeFactory = func(clientKey string) survey.Store {
			return survey.NewRedisStore(rdb, clientKey, sessionTTL)
		}
	} else {
		slots := cache.New(cache.NoExpiration, 10*time.Minute)
		storeFactory = func(clientKey string) survey.Store {
			return survey.NewCacheStore(slots, clientKey)
		}
	}
	workflowRepo := memory.NewWorkflowRepository(cache.NoExpiration, 10*time.Minute)

	// Upstream LLM
	provider := openrouter.NewProvider(
		cfg.Ai.OpenRouterAPIKey,
		openrouter.WithBaseURL(cfg.Ai.OpenRouterBaseURL),
		openrouter.WithModel(cfg.Ai.Model),
		openrouter.WithReferer(cfg.App.ClientURL),
	)
	llmRelay := relay.New(provider)

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, SurveyEventsTopic)
	surveyService := service.NewSurveyService(uowFactory, publisherService, sysLogger)
	workflowService := service.NewWorkflowService(
		surveyService,
		storeFactory,
		workflowRepo,
		llmRelay,
		cfg.Survey.MaxQuestions,
		cfg.Survey.AutoFirePrompt,
		sysLogger,
	)
	adminService := service.NewAdminService(uowFactory, cfg, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		SurveyEventsTopic,
		wsHub,
		natsPub,
		emailService,
		cfg.Admin.ResearcherEmail,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		SurveyController:   controller.NewSurveyController(surveyService),
		WorkflowController: controller.NewWorkflowController(workflowService),
		ChatController:     controller.NewChatController(llmRelay, sysLogger),
		AdminController: controller.NewAdminController(
			adminService,
			wsHub,
			serverutils.AdminJwtMiddleware(cfg.Admin.JWTSecret),
			cfg.Admin.JWTSecret,
		),
		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,
	}
}
