package bootstrap

import (
	"context"
	"log"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/controller"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/localstore"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/internal/websocket"
	"ai-docchat-be/pkg/llm/factory"
	"ai-docchat-be/pkg/rag/answer"
	"ai-docchat-be/pkg/rag/retriever"

	pktNats "ai-docchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	SourceController   controller.ISourceController
	ChatbotController  controller.IChatbotController
	SettingsController controller.ISettingsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	SessionRepo *memory.SessionRepository
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	localStore, err := localstore.New(cfg.App.DataDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open local store: %v", err)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.GeminiAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 2.5 Infrastructure
	// NATS (optional: the app runs degraded with a nil publisher)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (optional: only needed for multi-instance WebSocket fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Chat.ProgressTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Chat.ProgressTopic,
		wsHub,
		wsLogger,
	)

	llmLogger := service.InitLLMLogger()
	ret := retriever.NewRetriever(llmProvider, llmLogger, cfg.Ai.RetrievalTemperature)
	gen := answer.NewGenerator(llmProvider, llmLogger, cfg.Ai.AnswerTemperature)

	authService := service.NewAuthService(sessionRepo, localStore, natsPub, sysLogger)
	settingsService := service.NewSettingsService(localStore, sysLogger)
	sourceService := service.NewSourceService(publisherService, natsPub, sysLogger, cfg.Chat.UploadTick)
	chatbotService := service.NewChatbotService(
		ret,
		gen,
		settingsService,
		wsHub,
		natsPub,
		llmLogger,
		sysLogger,
		cfg.Chat.AskTimeout,
		cfg.Chat.PacingDelay,
		cfg.Chat.PhraseInterval,
	)

	// 4. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService, sessionRepo),
		SourceController:   controller.NewSourceController(sourceService, sessionRepo),
		ChatbotController:  controller.NewChatbotController(chatbotService, sessionRepo),
		SettingsController: controller.NewSettingsController(settingsService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		SessionRepo:     sessionRepo,
	}
}
