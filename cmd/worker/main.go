package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/amgadabdelhafez/knowledge-builder/internal/analysis"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/archive"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/classifier"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/config"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/email"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/metrics"
	miniostorage "github.com/amgadabdelhafez/knowledge-builder/internal/infra/minio"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/opencv"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/postgres"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/rabbitmq"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/tesseract"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/tracing"
	"github.com/amgadabdelhafez/knowledge-builder/internal/slides"
	"github.com/amgadabdelhafez/knowledge-builder/internal/usecase"
	"github.com/amgadabdelhafez/knowledge-builder/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting knowledge-builder worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if Jaeger unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	// Database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	fatalOnErr(err, "connect to postgres")
	defer pool.Close()

	fatalOnErr(postgres.RunMigrations(ctx, pool), "run migrations")

	// MinIO
	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:      cfg.MinIOEndpoint,
		AccessKey:     cfg.MinIOAccessKey,
		SecretKey:     cfg.MinIOSecretKey,
		UseSSL:        cfg.MinIOUseSSL,
		UploadBucket:  cfg.MinIOUploadBucket,
		ResultsBucket: cfg.MinIOResultsBucket,
	})
	fatalOnErr(err, "create minio storage")
	fatalOnErr(storage.EnsureBuckets(ctx), "ensure minio buckets")

	// RabbitMQ publisher connection
	rmqConn, err := amqp.Dial(cfg.RabbitMQURL)
	fatalOnErr(err, "connect to rabbitmq for publisher")
	defer rmqConn.Close()

	pub, err := rabbitmq.NewPublisher(rmqConn, cfg.RabbitMQExchange)
	fatalOnErr(err, "create rabbitmq publisher")

	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, cfg.RabbitMQDLQ)

	// OCR and NLP
	ocr, err := tesseract.NewEngine(cfg.TesseractLanguage, time.Duration(cfg.OCRTimeoutSeconds)*time.Second)
	fatalOnErr(err, "init tesseract")
	defer ocr.Close()

	analyzer, err := analysis.NewAnalyzer(cfg.LexiconPath)
	fatalOnErr(err, "load lexicon")

	contentClassifier := classifier.NewClient(
		cfg.ClassifierURL,
		time.Duration(cfg.ClassifierTimeoutSeconds)*time.Second,
		log,
	)

	// Slide pipeline
	preCfg := slides.DefaultPreprocessorConfig()
	preCfg.WhiteThreshold = cfg.WhiteThreshold
	preCfg.WhiteFraction = cfg.WhiteFraction
	pre := slides.NewPreprocessor(preCfg)

	judge := slides.NewJudge(slides.JudgeConfig{
		TextThreshold:   cfg.TextThreshold,
		VisualThreshold: cfg.VisualThreshold,
	})

	samplerCfg := slides.SamplerConfig{
		SamplesPerMinute:  cfg.SamplesPerMinute,
		IntroSkipSeconds:  cfg.IntroSkipSeconds,
		HistorySize:       cfg.HistorySize,
		HashSkipThreshold: cfg.HashSkipThreshold,
		MinTextChars:      cfg.MinTextChars,
		MinTextWords:      cfg.MinTextWords,
	}

	// Infra adapters
	repo := postgres.NewJobRepository(pool)
	zipper := archive.NewZipCreator()
	notifier := email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, log)

	// Use case
	uc := usecase.NewProcessLectureUseCase(usecase.Deps{
		Repo:    repo,
		Storage: storage,
		OpenVideo: func(path string) (slides.FrameSource, error) {
			return opencv.OpenVideoFile(path)
		},
		NewWriter: func(dir string) (slides.SlideWriter, error) {
			return opencv.NewSlideFileWriter(dir)
		},
		Pre:        pre,
		Judge:      judge,
		OCR:        ocr,
		Keywords:   analyzer,
		Classifier: contentClassifier,
		Zipper:     zipper,
		Publisher:  statusPub,
		DLQ:        dlqPub,
		Notifier:   notifier,
		Logger:     log,
		SamplerCfg: samplerCfg,
		TempDir:    cfg.TempDir,
		MaxRetries: cfg.MaxRetries,
	})

	// Metrics server
	metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	// Consumer (worker pool)
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         cfg.RabbitMQURL,
		Queue:       cfg.RabbitMQProcessingQueue,
		Exchange:    cfg.RabbitMQExchange,
		DLQ:         cfg.RabbitMQDLQ,
		StatusQueue: cfg.RabbitMQStatusQueue,
		Prefetch:    cfg.RabbitMQPrefetch,
		WorkerCount: cfg.WorkerCount,
		BaseDelayMs: cfg.RetryBaseDelayMs,
	}, uc.Execute, log)
	fatalOnErr(err, "create consumer")

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("knowledge-builder worker started, consuming messages")

	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer error", zap.Error(err))
	}

	// Shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Shutdown(shutdownCtx)

	consumer.Close()
	log.Info("knowledge-builder worker stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
