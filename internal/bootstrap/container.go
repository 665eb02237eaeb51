package bootstrap

import (
	"context"
	"log"
	"time"

	"legal-analysis-be/internal/config"
	"legal-analysis-be/internal/controller"
	"legal-analysis-be/internal/pkg/logger"
	"legal-analysis-be/internal/repository/implementation"
	"legal-analysis-be/internal/repository/unitofwork"
	"legal-analysis-be/internal/service"
	"legal-analysis-be/pkg/embedding"
	"legal-analysis-be/pkg/llm/factory"
	"legal-analysis-be/pkg/loader"
	"legal-analysis-be/pkg/rag/dictionary"
	"legal-analysis-be/pkg/rag/executor"
	"legal-analysis-be/pkg/rag/history"
	"legal-analysis-be/pkg/rag/index"
	"legal-analysis-be/pkg/rag/session"
	"legal-analysis-be/pkg/rag/splitter"
	"legal-analysis-be/pkg/rag/stage"
	"legal-analysis-be/pkg/rag/summarizer"
	"legal-analysis-be/pkg/scraper"

	pktNats "legal-analysis-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AnalysisController controller.IAnalysisController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared facades main.go needs at shutdown
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaModel,
	)
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.OllamaModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	var definitionCache dictionary.Cache
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, definition cache disabled: %v", err)
	} else {
		definitionCache = dictionary.NewRedisCache(rdb, 24*time.Hour)
	}

	// 5. Vector Index
	var chunkIndex index.Index
	if cfg.Analysis.VectorIndex == "memory" {
		chunkIndex = index.NewMemoryIndex()
		log.Printf("[INFO] Using Vector Index: MEMORY")
	} else {
		chunkIndex = index.NewPgvectorIndex(implementation.NewDocumentEmbeddingRepository(db))
		log.Printf("[INFO] Using Vector Index: PGVECTOR")
	}

	// 6. Pipeline Components
	docSummarizer := summarizer.New(
		loader.NewFileLoader(),
		splitter.New(splitter.DefaultChunkSize, splitter.DefaultOverlap),
		embeddingProvider,
		chunkIndex,
		llmProvider,
		sysLogger,
	)

	fetcher := scraper.NewNoloFetcher(cfg.Analysis.DictionaryBaseURL, cfg.Analysis.SearchURL)
	resolver := dictionary.NewResolver(fetcher, llmProvider, definitionCache, sysLogger)

	stages := executor.DefaultStages(
		executor.NewRetrievalStage(docSummarizer),
		executor.NewTermResolutionStage(resolver),
		executor.NewVisualizationStage(llmProvider),
	)
	pipelineExecutor := executor.NewPipelineExecutor(
		stage.NewRunner(sysLogger),
		stages,
		pubSub,
		cfg.Analysis.ProgressTopic,
		sysLogger,
	)

	sessionManager := session.NewManager(
		uowFactory,
		session.ContinuationPolicy(cfg.Analysis.SessionContinuation),
		sysLogger,
	)
	historyLoader := history.NewLoader(uowFactory, cfg.Analysis.HistoryLimit)

	// 7. Services
	analysisService := service.NewAnalysisService(
		uowFactory,
		sessionManager,
		historyLoader,
		pipelineExecutor,
		sysLogger,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.Analysis.ProgressTopic, natsPub)

	return &Container{
		AnalysisController: controller.NewAnalysisController(analysisService),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
