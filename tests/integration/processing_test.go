package integration

import (
	"archive/zip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcrabbitmq "github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/amgadabdelhafez/knowledge-builder/internal/analysis"
	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/archive"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/classifier"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/email"
	miniostorage "github.com/amgadabdelhafez/knowledge-builder/internal/infra/minio"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/opencv"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/postgres"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/rabbitmq"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/tesseract"
	"github.com/amgadabdelhafez/knowledge-builder/internal/slides"
	"github.com/amgadabdelhafez/knowledge-builder/internal/usecase"
	"github.com/amgadabdelhafez/knowledge-builder/pkg/logger"
)

type testStack struct {
	pgConnStr string
	rmqURL    string
	rmqConn   *amqp.Connection
	pool      *pgxpool.Pool
	storage   *miniostorage.Storage
	minio     *miniogo.Client
}

func startStack(t *testing.T, ctx context.Context) *testStack {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("lecture_jobs"),
		tcpostgres.WithUsername("kb_user"),
		tcpostgres.WithPassword("kb_pass"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	pgConnStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rmqContainer, err := tcrabbitmq.Run(ctx,
		"rabbitmq:3.12-management-alpine",
	)
	require.NoError(t, err)
	t.Cleanup(func() { rmqContainer.Terminate(ctx) })

	rmqURL, err := rmqContainer.AmqpURL(ctx)
	require.NoError(t, err)

	minioContainer, err := tcminio.Run(ctx,
		"minio/minio:latest",
		tcminio.WithUsername("minioadmin"),
		tcminio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { minioContainer.Terminate(ctx) })

	minioEndpoint, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.RunMigrations(ctx, pool))

	storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
		Endpoint:      minioEndpoint,
		AccessKey:     "minioadmin",
		SecretKey:     "minioadmin",
		UseSSL:        false,
		UploadBucket:  "lectures",
		ResultsBucket: "results",
	})
	require.NoError(t, err)
	require.NoError(t, storage.EnsureBuckets(ctx))

	minioClient, err := miniogo.New(minioEndpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err)

	rmqConn, err := amqp.Dial(rmqURL)
	require.NoError(t, err)
	t.Cleanup(func() { rmqConn.Close() })

	return &testStack{
		pgConnStr: pgConnStr,
		rmqURL:    rmqURL,
		rmqConn:   rmqConn,
		pool:      pool,
		storage:   storage,
		minio:     minioClient,
	}
}

func buildUseCase(t *testing.T, stack *testStack) *usecase.ProcessLectureUseCase {
	t.Helper()

	log, _ := logger.New("debug")

	pub, err := rabbitmq.NewPublisher(stack.rmqConn, "kb.lecture")
	require.NoError(t, err)
	statusPub := rabbitmq.NewStatusPublisher(pub)
	dlqPub := rabbitmq.NewDLQPublisher(pub, "lecture.processing.dlq")

	ocr, err := tesseract.NewEngine("eng", 30*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { ocr.Close() })

	analyzer, err := analysis.NewAnalyzer(filepath.Join("..", "testdata", "lexicon.yaml"))
	require.NoError(t, err)

	return usecase.NewProcessLectureUseCase(usecase.Deps{
		Repo:    postgres.NewJobRepository(stack.pool),
		Storage: stack.storage,
		OpenVideo: func(path string) (slides.FrameSource, error) {
			return opencv.OpenVideoFile(path)
		},
		NewWriter: func(dir string) (slides.SlideWriter, error) {
			return opencv.NewSlideFileWriter(dir)
		},
		Pre:        slides.NewPreprocessor(slides.DefaultPreprocessorConfig()),
		Judge:      slides.NewJudge(slides.JudgeConfig{TextThreshold: 0.8, VisualThreshold: 0.85}),
		OCR:        ocr,
		Keywords:   analyzer,
		Classifier: classifier.NewClient("", 15*time.Second, log),
		Zipper:     archive.NewZipCreator(),
		Publisher:  statusPub,
		DLQ:        dlqPub,
		Notifier:   email.NewSMTPNotifier("localhost", 1025, "test@test.local", log),
		Logger:     log,
		SamplerCfg: slides.SamplerConfig{
			SamplesPerMinute: 2.0,
			IntroSkipSeconds: 0,
			HistorySize:      10,
			MinTextChars:     10,
			MinTextWords:     3,
		},
		TempDir:    t.TempDir(),
		MaxRetries: 3,
	})
}

func startConsumer(t *testing.T, ctx context.Context, stack *testStack, uc *usecase.ProcessLectureUseCase) {
	t.Helper()

	log, _ := logger.New("debug")
	consumer, err := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		URL:         stack.rmqURL,
		Queue:       "lecture.processing",
		Exchange:    "kb.lecture",
		DLQ:         "lecture.processing.dlq",
		StatusQueue: "lecture.status",
		Prefetch:    1,
		WorkerCount: 1,
		BaseDelayMs: 100,
	}, uc.Execute, log)
	require.NoError(t, err)
	t.Cleanup(func() { consumer.Close() })

	go func() {
		consumer.Start(ctx)
	}()
	time.Sleep(500 * time.Millisecond)
}

func TestProcessLectureEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stack := startStack(t, ctx)

	testVideoPath := filepath.Join("..", "testdata", "lecture.mp4")
	if _, err := os.Stat(testVideoPath); os.IsNotExist(err) {
		t.Skip("test video not found at tests/testdata/lecture.mp4 - generate it with: ffmpeg -f lavfi -i testsrc=duration=30:size=640x480:rate=1 -c:v libx264 -pix_fmt yuv420p tests/testdata/lecture.mp4")
	}

	videoKey := "testuser/lecture.mp4"
	_, err := stack.minio.FPutObject(ctx, "lectures", videoKey, testVideoPath, miniogo.PutObjectOptions{
		ContentType: "video/mp4",
	})
	require.NoError(t, err)

	uc := buildUseCase(t, stack)

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()
	startConsumer(t, consumerCtx, stack, uc)

	jobID := uuid.New()
	videoInfo, _ := os.Stat(testVideoPath)
	processingMsg := entity.LectureProcessingMessage{
		JobID:    jobID,
		UserID:   "testuser",
		VideoKey: videoKey,
		Title:    "Test Lecture",
		// ExtractSlides stays false: the synthetic video has no slide
		// frames, and zero slides must still complete the job.
		ExtractSlides: false,
		FileSize:      videoInfo.Size(),
		UserEmail:     "test@test.local",
	}
	msgBody, err := json.Marshal(processingMsg)
	require.NoError(t, err)

	pubCh, err := stack.rmqConn.Channel()
	require.NoError(t, err)
	err = pubCh.PublishWithContext(ctx,
		"kb.lecture",
		"lecture.processing",
		false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msgBody,
		},
	)
	require.NoError(t, err)
	pubCh.Close()

	statusCh, err := stack.rmqConn.Channel()
	require.NoError(t, err)
	defer statusCh.Close()

	statusMsgs, err := statusCh.Consume("lecture.status", "", true, false, false, false, nil)
	require.NoError(t, err)

	var statusMsg entity.LectureStatusMessage
	select {
	case delivery := <-statusMsgs:
		err = json.Unmarshal(delivery.Body, &statusMsg)
		require.NoError(t, err)
	case <-time.After(2 * time.Minute):
		t.Fatal("timeout waiting for status message")
	}

	assert.Equal(t, jobID, statusMsg.JobID)
	assert.Equal(t, entity.JobStatusCompleted, statusMsg.Status)
	assert.NotEmpty(t, statusMsg.ResultKey)
	// The bundle key carries the sanitized lecture title.
	assert.Contains(t, statusMsg.ResultKey, "Test_Lecture")

	// Verify the result bundle exists and carries the analysis artifacts.
	resultObj, err := stack.minio.GetObject(ctx, "results", statusMsg.ResultKey, miniogo.GetObjectOptions{})
	require.NoError(t, err)

	tmpZip := filepath.Join(t.TempDir(), "results.zip")
	tmpFile, err := os.Create(tmpZip)
	require.NoError(t, err)
	_, err = tmpFile.ReadFrom(resultObj)
	require.NoError(t, err)
	tmpFile.Close()

	zipReader, err := zip.OpenReader(tmpZip)
	require.NoError(t, err)
	defer zipReader.Close()

	names := make(map[string]bool)
	for _, f := range zipReader.File {
		names[f.Name] = true
	}
	for _, want := range []string{"slides.json", "analyses.json", "segments.json", "summary.json"} {
		assert.True(t, names[want], "bundle should contain %s", want)
	}

	var dbStatus string
	var dbSlideCount int
	err = stack.pool.QueryRow(ctx,
		"SELECT status, slide_count FROM lecture_jobs WHERE id=$1", jobID,
	).Scan(&dbStatus, &dbSlideCount)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", dbStatus)
	assert.Equal(t, statusMsg.SlideCount, dbSlideCount)

	consumerCancel()
	t.Logf("Test passed: %d slides, bundle at %s", statusMsg.SlideCount, statusMsg.ResultKey)
}

func TestProcessLectureMalformedMessage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	stack := startStack(t, ctx)
	uc := buildUseCase(t, stack)

	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()
	startConsumer(t, consumerCtx, stack, uc)

	pubCh, err := stack.rmqConn.Channel()
	require.NoError(t, err)
	err = pubCh.PublishWithContext(ctx,
		"kb.lecture",
		"lecture.processing",
		false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        []byte(`{invalid json`),
		},
	)
	require.NoError(t, err)
	pubCh.Close()

	time.Sleep(2 * time.Second)

	dlqCh, err := stack.rmqConn.Channel()
	require.NoError(t, err)
	defer dlqCh.Close()

	dlqMsg, ok, err := dlqCh.Get("lecture.processing.dlq", true)
	require.NoError(t, err)
	assert.True(t, ok, "malformed message should be in DLQ")
	assert.Equal(t, `{invalid json`, string(dlqMsg.Body))

	consumerCancel()
	t.Log("Test passed: malformed message sent to DLQ")
}
