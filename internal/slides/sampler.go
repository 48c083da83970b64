package slides

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/port"
)

// FrameSource decodes frames from an opened video. ReadFrameAt seeks to an
// absolute frame index and returns an owned Mat the caller must Close.
type FrameSource interface {
	FrameCount() int
	FPS() float64
	ReadFrameAt(index int) (gocv.Mat, error)
	Close() error
}

// SlideWriter persists an accepted slide frame under its sequence number
// and verifies the written payload before reporting success.
type SlideWriter interface {
	WriteSlide(sequence int, frame gocv.Mat) (path string, err error)
}

// SamplerConfig carries the sampling-policy tunables. The defaults mirror
// long-standing heuristics; they are configuration, not constants, because
// nobody has justified them beyond "works on real lectures".
type SamplerConfig struct {
	// SamplesPerMinute derives the sample budget from video duration when
	// no explicit maximum is given.
	SamplesPerMinute float64
	// IntroSkipSeconds is skipped at the start of chapter-less videos,
	// unless a shorter duration limit is requested.
	IntroSkipSeconds float64
	// HistorySize bounds the duplicate-comparison window.
	HistorySize int
	// HashSkipThreshold short-circuits frames whose perceptual hash
	// differs from the previous sample by at most this fraction. The zero
	// default skips only byte-identical thumbnails.
	HashSkipThreshold float64
	// MinTextChars and MinTextWords gate OCR output sufficiency.
	MinTextChars int
	MinTextWords int
}

func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		SamplesPerMinute: 2.0,
		IntroSkipSeconds: 60,
		HistorySize:      DefaultHistorySize,
		MinTextChars:     10,
		MinTextWords:     3,
	}
}

// RunOptions parameterize one video run.
type RunOptions struct {
	// Chapters partition sampling when present; skip-pattern chapters are
	// excluded entirely.
	Chapters []entity.Chapter
	// DurationLimit truncates sampling to the first N seconds when > 0.
	DurationLimit float64
	// MaxSamples overrides the duration-derived budget when > 0.
	MaxSamples int
}

// RunStats summarizes one run for logging and metrics.
type RunStats struct {
	FramesSampled int
	Rejections    map[string]int
	Accepted      int
}

// Sampler drives frame sampling over a video: cadence policy, slide
// gating, OCR sufficiency, duplicate rejection, and persistence of
// accepted slides with gapless sequence numbers.
type Sampler struct {
	pre    *Preprocessor
	judge  *Judge
	ocr    port.OCREngine
	writer SlideWriter
	cfg    SamplerConfig
	logger *zap.Logger
}

func NewSampler(pre *Preprocessor, judge *Judge, ocr port.OCREngine, writer SlideWriter, cfg SamplerConfig, logger *zap.Logger) *Sampler {
	if cfg.SamplesPerMinute <= 0 {
		cfg.SamplesPerMinute = 2.0
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	return &Sampler{
		pre:    pre,
		judge:  judge,
		ocr:    ocr,
		writer: writer,
		cfg:    cfg,
		logger: logger,
	}
}

// run state shared across chapters within one video
type runState struct {
	seq      *Sequence
	history  *History
	slides   []entity.Slide
	stats    RunStats
	lastHash string
}

// Run samples the video and returns the accepted slides in order. A video
// that yields zero slides is not an error here; callers with a
// slides-required contract decide that. Fatal errors are limited to an
// unreadable source.
func (s *Sampler) Run(ctx context.Context, src FrameSource, opts RunOptions) ([]entity.Slide, RunStats, error) {
	frameCount := src.FrameCount()
	fps := src.FPS()
	if frameCount <= 0 || fps <= 0 {
		return nil, RunStats{}, fmt.Errorf("sampler: %w", entity.ErrNoFrames)
	}
	duration := float64(frameCount) / fps

	st := &runState{
		seq:     NewSequence(),
		history: NewHistory(s.cfg.HistorySize),
		stats:   RunStats{Rejections: make(map[string]int)},
	}
	defer st.history.Close()

	limit := duration
	if opts.DurationLimit > 0 && opts.DurationLimit < limit {
		limit = opts.DurationLimit
	}

	totalSamples := opts.MaxSamples
	if totalSamples <= 0 {
		totalSamples = max(1, int(limit/60.0*s.cfg.SamplesPerMinute))
	}

	if len(opts.Chapters) > 0 {
		if err := s.runChapters(ctx, src, st, opts.Chapters, fps, limit, totalSamples); err != nil {
			return nil, st.stats, err
		}
	} else {
		start := s.cfg.IntroSkipSeconds
		if opts.DurationLimit > 0 && opts.DurationLimit < s.cfg.IntroSkipSeconds {
			start = 0
		}
		if start >= limit {
			start = 0
		}
		startFrame := int(start * fps)
		endFrame := int(limit * fps)
		if endFrame > frameCount {
			endFrame = frameCount
		}
		if err := s.sampleRange(ctx, src, st, startFrame, endFrame, totalSamples, "", -1); err != nil {
			return nil, st.stats, err
		}
	}

	s.logger.Info("sampling finished",
		zap.Int("frames_sampled", st.stats.FramesSampled),
		zap.Int("slides_accepted", st.stats.Accepted),
		zap.Any("rejections", st.stats.Rejections),
	)
	return st.slides, st.stats, nil
}

func (s *Sampler) runChapters(ctx context.Context, src FrameSource, st *runState, chapters []entity.Chapter, fps, limit float64, totalSamples int) error {
	allotments := chapterAllotments(chapters, totalSamples)
	frameCount := src.FrameCount()

	for i, ch := range chapters {
		if ShouldSkipChapter(ch.Title) {
			s.logger.Debug("skipping chapter", zap.String("title", ch.Title))
			continue
		}
		if ch.StartTime >= limit {
			break
		}
		end := ch.EndTime
		if end <= 0 || end > limit {
			end = limit
		}

		startFrame := int(ch.StartTime * fps)
		endFrame := min(int(end*fps), frameCount)
		if err := s.sampleRange(ctx, src, st, startFrame, endFrame, allotments[i], ch.Title, i); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sampler) sampleRange(ctx context.Context, src FrameSource, st *runState, startFrame, endFrame, samples int, chapterTitle string, chapterIndex int) error {
	if endFrame <= startFrame || samples <= 0 {
		return nil
	}
	interval := max(1, (endFrame-startFrame)/samples)

	fps := src.FPS()
	for idx := startFrame; idx < endFrame; idx += interval {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := src.ReadFrameAt(idx)
		if err != nil {
			// A single bad frame is recoverable; the loop moves on.
			s.logger.Warn("frame decode failed", zap.Int("frame", idx), zap.Error(err))
			st.stats.Rejections["decode_error"]++
			continue
		}

		st.stats.FramesSampled++
		timestamp := float64(idx) / fps
		s.processFrame(ctx, st, frame, timestamp, chapterTitle, chapterIndex)
		frame.Close()
	}
	return nil
}

// processFrame runs the per-candidate pipeline. Every early return is a
// soft rejection; only acceptance mutates the run state beyond counters.
func (s *Sampler) processFrame(ctx context.Context, st *runState, frame gocv.Mat, timestamp float64, chapterTitle string, chapterIndex int) {
	hash := FrameHash(frame)
	if st.lastHash != "" && HashDifference(hash, st.lastHash) <= s.cfg.HashSkipThreshold {
		st.stats.Rejections["unchanged"]++
		return
	}
	st.lastHash = hash

	result, err := s.pre.PreprocessForOCR(frame)
	if err != nil {
		s.logger.Warn("preprocess failed", zap.Float64("timestamp", timestamp), zap.Error(err))
		st.stats.Rejections["preprocess_error"]++
		return
	}
	if !result.Accepted {
		st.stats.Rejections[string(result.Reason)]++
		return
	}
	defer result.Image.Close()

	encoded, err := gocv.IMEncode(gocv.PNGFileExt, result.Image)
	if err != nil {
		s.logger.Warn("frame encode failed", zap.Float64("timestamp", timestamp), zap.Error(err))
		st.stats.Rejections["encode_error"]++
		return
	}
	defer encoded.Close()

	text, err := s.ocr.ExtractText(ctx, encoded.GetBytes())
	if err != nil {
		s.logger.Warn("ocr failed", zap.Float64("timestamp", timestamp), zap.Error(err))
		st.stats.Rejections["ocr_error"]++
		return
	}
	if !s.HasSufficientText(text) {
		st.stats.Rejections["insufficient_text"]++
		return
	}

	if s.judge.AnySimilar(text, &frame, st.history.Entries()) {
		st.stats.Rejections["duplicate"]++
		return
	}

	sequence := st.seq.Next()
	path, err := s.writer.WriteSlide(sequence, frame)
	if err != nil {
		// Roll the counter back so reported sequence numbers always have a
		// verified file behind them.
		st.seq.Rollback()
		s.logger.Warn("slide persistence failed, dropping slide",
			zap.Int("sequence", sequence),
			zap.Float64("timestamp", timestamp),
			zap.Error(err),
		)
		st.stats.Rejections["persist_error"]++
		return
	}

	st.slides = append(st.slides, entity.Slide{
		SequenceNumber: sequence,
		Timestamp:      timestamp,
		Path:           path,
		ExtractedText:  text,
		ChapterTitle:   chapterTitle,
		ChapterIndex:   chapterIndex,
		Regions:        result.Regions,
	})
	st.history.Push(text, frame.Clone())
	st.stats.Accepted++

	s.logger.Debug("slide accepted",
		zap.Int("sequence", sequence),
		zap.Float64("timestamp", timestamp),
		zap.Int("regions", len(result.Regions)),
	)
}

// textNoiseChars are stripped before counting alphanumerics: OCR tends to
// hallucinate separators on gradients and rules.
const textNoiseChars = "|-_=.,:; "

// HasSufficientText reports whether OCR output is substantial enough to
// treat the frame as a real slide: at least MinTextChars alphanumerics and
// MinTextWords words longer than one character.
func (s *Sampler) HasSufficientText(text string) bool {
	alnum := 0
	for _, r := range text {
		if strings.ContainsRune(textNoiseChars, r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}

	words := 0
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) > 1 {
			words++
		}
	}

	return alnum >= s.cfg.MinTextChars && words >= s.cfg.MinTextWords
}
