package bootstrap

import (
	"context"
	"log"
	"os"

	"insurance-assistant-be/internal/config"
	"insurance-assistant-be/internal/controller"
	"insurance-assistant-be/internal/entity"
	"insurance-assistant-be/internal/pkg/logger"
	"insurance-assistant-be/internal/pkg/mailer"
	"insurance-assistant-be/internal/repository/memory"
	"insurance-assistant-be/internal/repository/records"
	"insurance-assistant-be/internal/repository/redisstore"
	"insurance-assistant-be/internal/service"
	"insurance-assistant-be/pkg/dialog/contextswitch"
	"insurance-assistant-be/pkg/dialog/flow"
	"insurance-assistant-be/pkg/dialog/intent"
	"insurance-assistant-be/pkg/dialog/knowledge"
	"insurance-assistant-be/pkg/llm/factory"
	"insurance-assistant-be/pkg/store"

	pktNats "insurance-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	NotificationService service.INotificationService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	notifLogger := logger.NewIsolatedLogger("logs/notification.log")
	dialogLog := log.New(os.Stdout, "[DIALOG] ", log.LstdFlags)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.LLMTimeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Session storage: Redis when configured, in-memory cache otherwise
	var sessionStore store.SessionStore
	if cfg.App.SessionBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionStore = redisstore.NewSessionRepository(rdb, cfg.App.SessionTTL)
		log.Printf("[INFO] Using Session Backend: REDIS")
	} else {
		sessionStore = memory.NewSessionRepository(cfg.App.SessionTTL)
		log.Printf("[INFO] Using Session Backend: MEMORY")
	}

	// Record storage: Postgres when a DB is configured
	var recordStore flow.RecordStore
	if db != nil {
		if err := db.AutoMigrate(&entity.Record{}); err != nil {
			log.Printf("[WARN] Failed to migrate records table: %v", err)
		}
		recordStore = records.NewGormRecordRepository(db)
	} else {
		log.Printf("[WARN] No database configured, records are kept in memory")
		recordStore = records.NewMemoryRecordRepository()
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 4. Dialog Components
	publisherService := service.NewPublisherService(cfg.Notify.RecordTopic, pubSub, sysLogger)
	engine := flow.NewEngine(recordStore, publisherService, dialogLog)
	classifier := intent.NewClassifier(llmProvider, dialogLog, cfg.Ai.LLMTimeout)
	coordinator := contextswitch.NewCoordinator(llmProvider, engine, dialogLog, cfg.Ai.LLMTimeout)
	kb := knowledge.NewSearcher(knowledge.DefaultBase(), dialogLog)

	// 5. Services
	chatService := service.NewChatService(
		sessionStore,
		classifier,
		coordinator,
		engine,
		kb,
		llmProvider,
		sysLogger,
		cfg.Ai.LLMTimeout,
	)

	notificationService := service.NewNotificationService(
		pubSub,
		cfg.Notify.RecordTopic,
		emailService,
		natsPub,
		cfg.Notify.TeamEmail,
		notifLogger,
	)

	return &Container{
		ChatController:      controller.NewChatController(chatService),
		NotificationService: notificationService,
	}
}
