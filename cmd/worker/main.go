// Command worker consumes extraction jobs from Kafka and runs the term and
// obligation pipelines against the NLP services, archiving results in
// PostgreSQL, MinIO, OpenSearch and Neo4j.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

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
	"github.com/regcat-io/regcat/internal/infrastructure/storage/minio"
	nlpclient "github.com/regcat-io/regcat/internal/nlp/client"
	"github.com/regcat-io/regcat/pkg/errors"
)

// Build-time variables injected via ldflags.
var version = "dev"

const (
	defaultConfigPath = "configs/config.yaml"
	probePort         = 8081
)

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

	logger.Info("Starting RegCat extraction worker", logging.String("version", version))

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
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

	driver, err := neo4jdriver.NewDriver(cfg.Neo4j, logger)
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close()

	vocab := obligation.NewVocabulary(cfg.Graph.BaseURI)
	graphRepo := neo4jrepos.NewObligationGraphRepository(driver, vocab, logger)

	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("redis client: %w", err)
	}
	defer redisClient.Close()
	leases := &leaseAdapter{manager: redis.NewLeaseManager(redisClient, cfg.Worker, logger)}

	minioClient, err := minio.NewClient(cfg.MinIO, logger)
	if err != nil {
		return fmt.Errorf("minio client: %w", err)
	}
	casStore := minio.NewCASStore(minioClient, logger)
	roHTMLStore := minio.NewROHTMLStore(minioClient, logger)

	osClient, err := opensearch.NewClient(cfg.OpenSearch, logger)
	if err != nil {
		return fmt.Errorf("opensearch client: %w", err)
	}
	indexer := opensearch.NewIndexer(osClient, logger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := indexer.EnsureIndexes(startupCtx); err != nil {
		cancelStartup()
		return fmt.Errorf("opensearch indexes: %w", err)
	}
	cancelStartup()

	nlp := nlpclient.New(cfg.NLP, logger)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "regcat",
		Subsystem:            "worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics collector: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	svc := extraction.NewService(extraction.Deps{
		Documents:   documentRepo,
		Websites:    websiteRepo,
		Concepts:    conceptRepo,
		Acceptance:  acceptanceRepo,
		Worklogs:    worklogRepo,
		Obligations: obligationRepo,
		Graph:       graphRepo,
		Vocab:       vocab,
		NLP:         nlp,
		Content:     newHTTPContentSource(documentRepo, cfg.NLP.RequestTimeout, logger),
		CASStore:    casStore,
		ROHTML:      roHTMLStore,
		Index:       indexer,
		Leases:      leases,
		Logger:      logger,
	})

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          []string{kafka.TopicExtractTerms, kafka.TopicExtractObligations},
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      cfg.Worker.MaxRetries,
			RetryBackoff:    time.Second,
			MaxRetryBackoff: 30 * time.Second,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer consumer.Close()

	if err := consumer.Subscribe(kafka.TopicExtractTerms, termsHandler(svc, metrics, logger)); err != nil {
		return err
	}
	if err := consumer.Subscribe(kafka.TopicExtractObligations, obligationsHandler(svc, metrics, logger)); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	probe := startProbeServer(conn, collector, logger)
	defer probe.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down", logging.String("signal", sig.String()))
	cancel()
	if err := consumer.Close(); err != nil {
		logger.Warn("Consumer close failed", logging.Err(err))
	}
	logger.Info("Worker stopped")
	return nil
}

// termsHandler decodes one term-extraction job and runs the pipeline.  A
// held lease surfaces as an error so the message is retried later.
func termsHandler(svc *extraction.Service, metrics *prometheus.AppMetrics, logger logging.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.Message) error {
		env, err := kafka.MessageToEventEnvelope(msg)
		if err != nil {
			return err
		}
		var payload kafka.ExtractTermsPayload
		if err := env.DecodePayload(&payload); err != nil {
			return err
		}
		documentID, err := uuid.Parse(payload.DocumentID)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeValidation, "job carries malformed document id")
		}

		logger.Info("Term extraction job received",
			logging.String("document_id", payload.DocumentID),
			logging.Bool("force", payload.Force))
		start := time.Now()
		err = svc.ExtractTerms(ctx, documentID, payload.Force)
		prometheus.RecordExtractionJob(metrics, extraction.PipelineTerms, err, time.Since(start))
		return err
	}
}

// obligationsHandler decodes one obligation-extraction job and runs the
// pipeline.
func obligationsHandler(svc *extraction.Service, metrics *prometheus.AppMetrics, logger logging.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.Message) error {
		env, err := kafka.MessageToEventEnvelope(msg)
		if err != nil {
			return err
		}
		var payload kafka.ExtractObligationsPayload
		if err := env.DecodePayload(&payload); err != nil {
			return err
		}
		documentID, err := uuid.Parse(payload.DocumentID)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeValidation, "job carries malformed document id")
		}

		logger.Info("Obligation extraction job received",
			logging.String("document_id", payload.DocumentID),
			logging.Bool("force", payload.Force))
		start := time.Now()
		err = svc.ExtractObligations(ctx, documentID, payload.Force)
		prometheus.RecordExtractionJob(metrics, extraction.PipelineObligations, err, time.Since(start))
		return err
	}
}

// startProbeServer exposes liveness, readiness and metrics endpoints for
// the orchestrator.  Readiness follows the database connection.
func startProbeServer(conn *postgres.Connection, collector prometheus.MetricsCollector, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := conn.HealthCheck(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", probePort), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("Probe server stopped", logging.Err(err))
		}
	}()
	return srv
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
