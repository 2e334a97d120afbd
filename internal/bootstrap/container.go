package bootstrap

import (
	"context"
	"fmt"
	"log"

	"doctech-be/internal/config"
	"doctech-be/internal/controller"
	"doctech-be/internal/pkg/logger"
	"doctech-be/internal/service"
	"doctech-be/pkg/ai/router"
	"doctech-be/pkg/llm/factory"
	"doctech-be/pkg/llm/structured"
	pktNats "doctech-be/pkg/nats"
	"doctech-be/pkg/search"
	"doctech-be/pkg/search/elastic"
	"doctech-be/pkg/search/groundx"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const QueryTopic = "doctech.queries"

type Container struct {
	// Controllers
	QueryController controller.IQueryController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, func() {
		_ = auditLogger.Sync()
		_ = sysLogger.Sync()
	})

	queryRouter, err := NewRouter(ctx, cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	// Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarder service.IEventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
			log.Printf("[INFO] Forwarding query events to NATS (%s)", cfg.App.NatsURL)
		}
	}

	publisherService := service.NewPublisherService(QueryTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, QueryTopic, auditLogger, forwarder, sysLogger)

	queryService := service.NewQueryService(queryRouter, publisherService, sysLogger)
	c.QueryController = controller.NewQueryController(queryService, sysLogger)

	return c, nil
}

// NewRouter builds the classifier and search stack from config. cmd/ask
// uses it directly, without the HTTP layer.
func NewRouter(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (*router.Router, error) {
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OpenAIKey:     cfg.Keys.OpenAI,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		HFKey:         cfg.Keys.HuggingFace,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		GeminiKey:     cfg.Keys.GoogleGemini,
		Timeout:       cfg.Ai.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	classifier := structured.NewLLMClassifier(llmProvider, cfg.Ai.LLMModel)

	searchClient, err := newSearchClient(ctx, cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	return router.NewRouter(classifier, searchClient, sysLogger), nil
}

func newSearchClient(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (search.Client, error) {
	var searcher search.Searcher
	switch cfg.Search.Provider {
	case "groundx", "":
		s, err := groundx.NewSearcher(groundx.Config{
			BaseURL:  cfg.Search.GroundXBaseURL,
			APIKey:   cfg.Keys.GroundX,
			BucketID: cfg.Search.GroundXBucketID,
			Timeout:  cfg.Search.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GroundX search: %w", err)
		}
		searcher = s
	case "elastic", "elasticsearch":
		s, err := elastic.NewSearcher(elastic.Config{
			Addresses: cfg.Search.ElasticAddresses,
			Username:  cfg.Search.ElasticUsername,
			Password:  cfg.Search.ElasticPassword,
			Index:     cfg.Search.ElasticIndex,
			Timeout:   cfg.Search.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Elasticsearch search: %w", err)
		}
		searcher = s
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", cfg.Search.Provider)
	}
	log.Printf("[INFO] Using Search Provider: %s", cfg.Search.Provider)

	var client search.Client = search.NewTopHitClient(searcher)
	if cfg.Search.CacheTTL <= 0 {
		return client, nil
	}

	var store search.Store
	switch cfg.Search.CacheBackend {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		store = search.NewRedisStore(rdb)
	default:
		store = search.NewMemoryStore(cfg.Search.CacheTTL)
	}
	log.Printf("[INFO] Search cache enabled (%s, ttl %s)", cfg.Search.CacheBackend, cfg.Search.CacheTTL)

	return search.NewCachedClient(client, store, cfg.Search.CacheTTL, func(op string, err error) {
		sysLogger.Warn("SearchCache", "Cache "+op+" failed", map[string]interface{}{"error": err.Error()})
	}), nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
