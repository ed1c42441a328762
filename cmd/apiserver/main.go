// Command apiserver runs the RegCat HTTP API: catalogue browsing, the
// annotator store, acceptance verdicts and extraction dispatch.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/regcat-io/regcat/internal/application/annotation"
	"github.com/regcat-io/regcat/internal/application/catalogue"
	"github.com/regcat-io/regcat/internal/application/extraction"
	"github.com/regcat-io/regcat/internal/config"
	"github.com/regcat-io/regcat/internal/domain/obligation"
	neo4jdriver "github.com/regcat-io/regcat/internal/infrastructure/database/neo4j"
	neo4jrepos "github.com/regcat-io/regcat/internal/infrastructure/database/neo4j/repositories"
	"github.com/regcat-io/regcat/internal/infrastructure/database/postgres"
	"github.com/regcat-io/regcat/internal/infrastructure/database/postgres/repositories"
	"github.com/regcat-io/regcat/internal/infrastructure/database/redis"
	"github.com/regcat-io/regcat/internal/infrastructure/messaging/kafka"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/prometheus"
	"github.com/regcat-io/regcat/internal/infrastructure/search/opensearch"
	httpserver "github.com/regcat-io/regcat/internal/interfaces/http"
	"github.com/regcat-io/regcat/internal/interfaces/http/handlers"
	"github.com/regcat-io/regcat/internal/interfaces/http/middleware"
	nlpclient "github.com/regcat-io/regcat/internal/nlp/client"
)

// Build-time variables injected via ldflags.
var version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Starting RegCat API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	if err := run(cfg, logger); err != nil {
		logger.Error("API server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	// PostgreSQL: the relational catalogue.
	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("postgres connection: %w", err)
	}
	defer conn.Close()

	db := conn.DB()
	documentRepo := repositories.NewDocumentRepository(db, logger)
	websiteRepo := repositories.NewWebsiteRepository(db, logger)
	conceptRepo := repositories.NewConceptRepository(db, logger)
	acceptanceRepo := repositories.NewAcceptanceRepository(db, logger)
	worklogRepo := repositories.NewWorklogRepository(db, logger)
	obligationRepo := repositories.NewObligationRepository(db, logger)

	if cfg.Database.MigrationPath != "" {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("database migrations: %w", err)
		}
	}

	// Redis: obligation view cache.  The catalogue degrades to direct graph
	// reads when the cache is unreachable at startup.
	var cache redis.Cache
	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, obligation views will not be cached", logging.Err(err))
	} else {
		defer redisClient.Close()
		cache = redis.NewCache(redisClient, logger)
	}

	// Neo4j: the RDF identity layer behind the obligation views.
	driver, err := neo4jdriver.NewDriver(cfg.Neo4j, logger)
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close()

	vocab := obligation.NewVocabulary(cfg.Graph.BaseURI)
	graphRepo := neo4jrepos.NewObligationGraphRepository(driver, vocab, logger)

	// OpenSearch: highlight reads for the review frontend.  Document
	// browsing keeps working without it.
	var highlights catalogue.HighlightSearcher
	osClient, err := opensearch.NewClient(cfg.OpenSearch, logger)
	if err != nil {
		logger.Warn("OpenSearch unavailable, document highlights disabled", logging.Err(err))
	} else {
		highlights = opensearch.NewSearcher(osClient, logger)
	}

	// Kafka: extraction job dispatch.
	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Kafka.Brokers,
		MaxRetries: cfg.Kafka.ProducerRetries,
		BatchSize:  cfg.Kafka.BatchSize,
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	// NLP client: only the pipeline version stamps are needed here, the
	// heavy stages run in the worker.
	nlp := nlpclient.New(cfg.NLP, logger)

	dispatcher := extraction.NewService(extraction.Deps{
		Documents: documentRepo,
		Websites:  websiteRepo,
		NLP:       nlp,
		Publisher: producer,
		Logger:    logger,
	})

	annotationService := annotation.NewService(worklogRepo, conceptRepo, logger)
	catalogueService := catalogue.NewService(
		conceptRepo, obligationRepo, acceptanceRepo, documentRepo,
		graphRepo, vocab, highlights, cache, logger)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "regcat",
		Subsystem:            "apiserver",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector: %w", err)
	}

	checkers := []handlers.HealthChecker{
		&postgresHealthAdapter{conn: conn},
		&neo4jHealthAdapter{driver: driver},
	}
	if redisClient != nil {
		checkers = append(checkers, &redisHealthAdapter{client: redisClient})
	}
	healthHandler := handlers.NewHealthHandler(version, checkers...)

	corsCfg := middleware.DefaultCORSConfig()
	rateCfg := middleware.DefaultRateLimitConfig()

	router := httpserver.NewRouter(httpserver.RouterConfig{
		AnnotationHandler: handlers.NewAnnotationHandler(annotationService),
		CatalogueHandler:  handlers.NewCatalogueHandler(catalogueService),
		DocumentHandler:   handlers.NewDocumentHandler(catalogueService, dispatcher),
		HealthHandler:     healthHandler,
		CORS:              &corsCfg,
		RateLimit:         &rateCfg,
		Logger:            logger,
		MetricsCollector:  collector,
	})

	server := httpserver.NewServer(cfg.Server.Port, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", logging.String("signal", sig.String()))
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		return err
	}
	logger.Info("API server stopped")
	return nil
}

// loadConfig reads the config file when present and falls back to the
// environment otherwise.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

//Personal.AI order the ending
