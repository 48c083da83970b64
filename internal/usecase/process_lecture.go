package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/amgadabdelhafez/knowledge-builder/internal/analysis"
	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/port"
	"github.com/amgadabdelhafez/knowledge-builder/internal/infra/metrics"
	"github.com/amgadabdelhafez/knowledge-builder/internal/segment"
	"github.com/amgadabdelhafez/knowledge-builder/internal/slides"
)

// ProcessLectureUseCase runs the full lecture pipeline for one message:
// download, slide sampling, per-slide analysis, transcript alignment,
// summary, and upload of the result bundle.
type ProcessLectureUseCase struct {
	repo       port.JobRepository
	storage    port.LectureStorage
	openVideo  func(path string) (slides.FrameSource, error)
	newWriter  func(dir string) (slides.SlideWriter, error)
	pre        *slides.Preprocessor
	judge      *slides.Judge
	ocr        port.OCREngine
	keywords   port.KeywordExtractor
	classifier port.ContentClassifier
	enricher   *segment.Enricher
	zipper     port.Zipper
	publisher  port.StatusPublisher
	dlq        port.DLQPublisher
	notifier   port.FailureNotifier
	logger     *zap.Logger
	samplerCfg slides.SamplerConfig
	tempDir    string
	maxRetry   int
}

// Deps carries the use case wiring. openVideo and newWriter are factories
// because the frame source and slide writer are per-job: one capture and
// one output directory per lecture.
type Deps struct {
	Repo       port.JobRepository
	Storage    port.LectureStorage
	OpenVideo  func(path string) (slides.FrameSource, error)
	NewWriter  func(dir string) (slides.SlideWriter, error)
	Pre        *slides.Preprocessor
	Judge      *slides.Judge
	OCR        port.OCREngine
	Keywords   port.KeywordExtractor
	Classifier port.ContentClassifier
	Zipper     port.Zipper
	Publisher  port.StatusPublisher
	DLQ        port.DLQPublisher
	Notifier   port.FailureNotifier
	Logger     *zap.Logger
	SamplerCfg slides.SamplerConfig
	TempDir    string
	MaxRetries int
}

func NewProcessLectureUseCase(d Deps) *ProcessLectureUseCase {
	return &ProcessLectureUseCase{
		repo:       d.Repo,
		storage:    d.Storage,
		openVideo:  d.OpenVideo,
		newWriter:  d.NewWriter,
		pre:        d.Pre,
		judge:      d.Judge,
		ocr:        d.OCR,
		keywords:   d.Keywords,
		classifier: d.Classifier,
		enricher:   segment.NewEnricher(d.Keywords),
		zipper:     d.Zipper,
		publisher:  d.Publisher,
		dlq:        d.DLQ,
		notifier:   d.Notifier,
		logger:     d.Logger,
		samplerCfg: d.SamplerCfg,
		tempDir:    d.TempDir,
		maxRetry:   d.MaxRetries,
	}
}

func (uc *ProcessLectureUseCase) Execute(ctx context.Context, rawMsg []byte) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ProcessLectureUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()

	var msg entity.LectureProcessingMessage
	if err := json.Unmarshal(rawMsg, &msg); err != nil {
		uc.logger.Error("failed to unmarshal message", zap.Error(err), zap.ByteString("body", rawMsg))
		_ = uc.dlq.PublishToDLQ(ctx, rawMsg, "unmarshal_error: "+err.Error())
		return nil
	}

	span.SetAttributes(
		attribute.String("job.id", msg.JobID.String()),
		attribute.String("job.video_key", msg.VideoKey),
	)

	log := uc.logger.With(zap.String("job_id", msg.JobID.String()), zap.String("video_key", msg.VideoKey))

	job, err := uc.repo.FindByID(ctx, msg.JobID)
	if err != nil {
		job = entity.NewLectureJob(msg.UserID, msg.VideoKey, msg.TranscriptKey, msg.FileSize, uc.maxRetry)
		job.ID = msg.JobID
		if err := uc.repo.Create(ctx, job); err != nil {
			log.Error("failed to create job record", zap.Error(err))
			return fmt.Errorf("create job: %w", err)
		}
	}

	if !job.CanRetry() {
		log.Warn("job exhausted retries, sending to DLQ")
		_ = uc.handlePermanentFailure(ctx, job, msg, rawMsg, "max retries exceeded")
		return nil
	}

	job.MarkProcessing()
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to PROCESSING", zap.Error(err))
		return fmt.Errorf("update job: %w", err)
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	if err := uc.processPipeline(ctx, job, msg, rawMsg, log); err != nil {
		return err
	}

	metrics.JobsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.JobProcessingDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())

	return nil
}

func (uc *ProcessLectureUseCase) processPipeline(
	ctx context.Context,
	job *entity.LectureJob,
	msg entity.LectureProcessingMessage,
	rawMsg []byte,
	log *zap.Logger,
) error {
	tracer := otel.Tracer("usecase")

	workDir := filepath.Join(uc.tempDir, job.ID.String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Download video
	dlStart := time.Now()
	ctxDl, spanDl := tracer.Start(ctx, "download_video")
	videoPath := filepath.Join(workDir, "input.mp4")
	if err := uc.storage.DownloadVideo(ctxDl, msg.VideoKey, videoPath); err != nil {
		spanDl.End()
		log.Error("failed to download video", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "download_video: "+err.Error(), log)
	}
	spanDl.End()
	metrics.JobProcessingDuration.WithLabelValues("download").Observe(time.Since(dlStart).Seconds())

	// Sample slides
	sampleStart := time.Now()
	ctxSm, spanSm := tracer.Start(ctx, "sample_slides")
	lectureSlides, duration, err := uc.sampleSlides(ctxSm, msg, videoPath, workDir, log)
	spanSm.End()
	if err != nil {
		if errors.Is(err, entity.ErrNoSlides) || errors.Is(err, entity.ErrVideoOpen) || errors.Is(err, entity.ErrNoFrames) {
			// Deterministic outcomes; a retry decodes the same video again.
			log.Warn("sampling failed permanently", zap.Error(err))
			return uc.handlePermanentFailure(ctx, job, msg, rawMsg, "sample_slides: "+err.Error())
		}
		log.Error("sampling failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "sample_slides: "+err.Error(), log)
	}
	metrics.JobProcessingDuration.WithLabelValues("sample").Observe(time.Since(sampleStart).Seconds())

	// Analyze slides
	anStart := time.Now()
	ctxAn, spanAn := tracer.Start(ctx, "analyze_slides")
	analyses := uc.analyzeSlides(ctxAn, lectureSlides, log)
	spanAn.End()
	metrics.JobProcessingDuration.WithLabelValues("analyze").Observe(time.Since(anStart).Seconds())

	// Align transcript, when one was provided
	var segments []entity.ContentSegment
	if msg.TranscriptKey != "" {
		alStart := time.Now()
		ctxAl, spanAl := tracer.Start(ctx, "align_transcript")
		segments, err = uc.alignTranscript(ctxAl, msg, lectureSlides, analyses)
		spanAl.End()
		if err != nil {
			log.Error("transcript alignment failed", zap.Error(err))
			return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "align_transcript: "+err.Error(), log)
		}
		metrics.JobProcessingDuration.WithLabelValues("align").Observe(time.Since(alStart).Seconds())
	}

	summary := segment.Summarize(msg.Title, segments, len(lectureSlides))

	// Bundle and upload results
	upStart := time.Now()
	ctxUp, spanUp := tracer.Start(ctx, "upload_results")
	resultKey, err := uc.uploadResults(ctxUp, job, msg, workDir, lectureSlides, analyses, segments, summary)
	spanUp.End()
	if err != nil {
		log.Error("result upload failed", zap.Error(err))
		return uc.handleRetryableFailure(ctx, job, msg, rawMsg, "upload_results: "+err.Error(), log)
	}
	metrics.JobProcessingDuration.WithLabelValues("upload").Observe(time.Since(upStart).Seconds())

	job.MarkCompleted(resultKey, len(lectureSlides), len(segments), duration)
	if err := uc.repo.Update(ctx, job); err != nil {
		log.Error("failed to update job to COMPLETED", zap.Error(err))
		return fmt.Errorf("update job completed: %w", err)
	}

	uc.publishStatus(ctx, job, log)

	log.Info("job completed successfully",
		zap.Int("slide_count", len(lectureSlides)),
		zap.Int("segment_count", len(segments)),
		zap.Float64("duration_secs", duration),
		zap.String("result_key", resultKey),
	)

	return nil
}

// sampleSlides opens the downloaded video and runs the sampler over it.
// Returns the accepted slides and the video duration in seconds.
func (uc *ProcessLectureUseCase) sampleSlides(
	ctx context.Context,
	msg entity.LectureProcessingMessage,
	videoPath, workDir string,
	log *zap.Logger,
) ([]entity.Slide, float64, error) {
	src, err := uc.openVideo(videoPath)
	if err != nil {
		return nil, 0, err
	}
	defer src.Close()

	duration := 0.0
	if src.FPS() > 0 {
		duration = float64(src.FrameCount()) / src.FPS()
	}

	chapters := msg.Chapters
	if len(chapters) == 0 && msg.Description != "" {
		chapters = slides.ParseChaptersFromDescription(msg.Description, duration)
	}

	writer, err := uc.newWriter(filepath.Join(workDir, "slides"))
	if err != nil {
		return nil, 0, err
	}

	sampler := slides.NewSampler(uc.pre, uc.judge, uc.ocr, writer, uc.samplerCfg, log)
	accepted, stats, err := sampler.Run(ctx, src, slides.RunOptions{
		Chapters:      chapters,
		DurationLimit: msg.DurationLimit,
	})
	if err != nil {
		return nil, 0, err
	}

	metrics.FramesSampledTotal.Add(float64(stats.FramesSampled))
	metrics.SlidesAcceptedTotal.Add(float64(stats.Accepted))
	for reason, count := range stats.Rejections {
		metrics.FrameRejectionsTotal.WithLabelValues(reason).Add(float64(count))
	}

	if msg.ExtractSlides && len(accepted) == 0 {
		return nil, 0, entity.ErrNoSlides
	}
	return accepted, duration, nil
}

// analyzeSlides runs keyword extraction, technical-term detection, and
// content classification over each accepted slide's OCR text. A classifier
// failure downgrades that slide to unknown rather than failing the job.
func (uc *ProcessLectureUseCase) analyzeSlides(ctx context.Context, lectureSlides []entity.Slide, log *zap.Logger) []entity.SlideAnalysis {
	analyses := make([]entity.SlideAnalysis, len(lectureSlides))
	for i, slide := range lectureSlides {
		analysis := entity.SlideAnalysis{
			ExtractedText:  slide.ExtractedText,
			Keywords:       uc.keywords.ExtractKeywords(slide.ExtractedText),
			TechnicalTerms: uc.keywords.DetectTechnicalTerms(slide.ExtractedText),
		}

		label, confidence, err := uc.classifier.Classify(ctx, slide.ExtractedText)
		if err != nil {
			log.Warn("content classification failed",
				zap.Int("sequence", slide.SequenceNumber),
				zap.Error(err),
			)
			label, confidence = "unknown", 0.0
		}
		analysis.ContentType = label
		analysis.Confidence = confidence

		analyses[i] = analysis
	}
	return analyses
}

func (uc *ProcessLectureUseCase) alignTranscript(
	ctx context.Context,
	msg entity.LectureProcessingMessage,
	lectureSlides []entity.Slide,
	analyses []entity.SlideAnalysis,
) ([]entity.ContentSegment, error) {
	payload, err := uc.storage.FetchTranscript(ctx, msg.TranscriptKey)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}

	entries, err := segment.ParseTranscript(payload)
	if err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}

	timestamps := make([]float64, len(lectureSlides))
	for i, slide := range lectureSlides {
		timestamps[i] = slide.Timestamp
	}

	segments := segment.Align(entries, timestamps)
	return uc.enricher.Enrich(segments, analyses), nil
}

// uploadResults serializes the analysis artifacts next to the slide images,
// zips everything, and uploads the bundle.
func (uc *ProcessLectureUseCase) uploadResults(
	ctx context.Context,
	job *entity.LectureJob,
	msg entity.LectureProcessingMessage,
	workDir string,
	lectureSlides []entity.Slide,
	analyses []entity.SlideAnalysis,
	segments []entity.ContentSegment,
	summary entity.LectureSummary,
) (string, error) {
	var files []string
	for _, slide := range lectureSlides {
		files = append(files, slide.Path)
	}

	artifacts := map[string]any{
		"slides.json":   lectureSlides,
		"analyses.json": analyses,
		"segments.json": segments,
		"summary.json":  summary,
	}
	for name, v := range artifacts {
		path := filepath.Join(workDir, name)
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
		files = append(files, path)
	}

	zipPath := filepath.Join(workDir, "results.zip")
	if err := uc.zipper.CreateZip(ctx, files, zipPath); err != nil {
		return "", fmt.Errorf("create zip: %w", err)
	}

	zipFile, err := os.Open(zipPath)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer zipFile.Close()

	stat, err := zipFile.Stat()
	if err != nil {
		return "", fmt.Errorf("stat zip: %w", err)
	}

	// The lecture title names the bundle when present; untitled lectures
	// fall back to the job ID alone.
	resultKey := fmt.Sprintf("%s/results_%s.zip", msg.UserID, job.ID.String())
	if name := analysis.CleanFilename(msg.Title, 60); name != "" {
		resultKey = fmt.Sprintf("%s/%s_%s.zip", msg.UserID, name, job.ID.String())
	}
	if err := uc.storage.UploadResults(ctx, resultKey, zipFile, stat.Size()); err != nil {
		return "", err
	}
	return resultKey, nil
}

func (uc *ProcessLectureUseCase) handleRetryableFailure(
	ctx context.Context,
	job *entity.LectureJob,
	msg entity.LectureProcessingMessage,
	rawMsg []byte,
	errMsg string,
	log *zap.Logger,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	if !job.CanRetry() {
		return uc.handlePermanentFailure(ctx, job, msg, rawMsg, errMsg)
	}

	metrics.RetryTotal.WithLabelValues(strconv.Itoa(job.Attempt)).Inc()
	uc.publishStatus(ctx, job, log)

	return fmt.Errorf("retryable failure (attempt %d/%d): %s", job.Attempt, job.MaxAttempts, errMsg)
}

func (uc *ProcessLectureUseCase) handlePermanentFailure(
	ctx context.Context,
	job *entity.LectureJob,
	msg entity.LectureProcessingMessage,
	rawMsg []byte,
	errMsg string,
) error {
	job.MarkFailed(errMsg)
	_ = uc.repo.Update(ctx, job)

	_ = uc.dlq.PublishToDLQ(ctx, rawMsg, errMsg)

	uc.publishStatus(ctx, job, uc.logger)

	metrics.JobsProcessedTotal.WithLabelValues("dlq").Inc()

	if msg.UserEmail != "" {
		_ = uc.notifier.NotifyFailure(ctx, msg.UserEmail, job.ID.String(), msg.VideoKey, errMsg)
	}

	return nil
}

func (uc *ProcessLectureUseCase) publishStatus(ctx context.Context, job *entity.LectureJob, log *zap.Logger) {
	statusMsg := entity.LectureStatusMessage{
		JobID:        job.ID,
		UserID:       job.UserID,
		Status:       job.Status,
		VideoKey:     job.VideoKey,
		ResultKey:    job.ResultKey,
		SlideCount:   job.SlideCount,
		SegmentCount: job.SegmentCount,
		Duration:     job.VideoDuration,
		ErrorMessage: job.ErrorMessage,
		Attempt:      job.Attempt,
		MaxAttempts:  job.MaxAttempts,
	}
	data, _ := json.Marshal(statusMsg)
	if err := uc.publisher.PublishStatus(ctx, data); err != nil {
		log.Error("failed to publish status", zap.Error(err))
	}
}
