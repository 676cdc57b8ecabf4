package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/listenup-narration/internal/alignment"
	"github.com/listenupapp/listenup-narration/internal/domain"
	domainerrors "github.com/listenupapp/listenup-narration/internal/errors"
	"github.com/listenupapp/listenup-narration/internal/id"
	"github.com/listenupapp/listenup-narration/internal/logger"
	"github.com/listenupapp/listenup-narration/internal/normalize"
	"github.com/listenupapp/listenup-narration/internal/store"
	"github.com/listenupapp/listenup-narration/internal/transcription"
	"github.com/listenupapp/listenup-narration/internal/validation"
)

// Transcriber turns an audio file into a word-level transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (*transcription.Transcript, error)
	Health(ctx context.Context) (*transcription.Health, error)
}

// DurationProber reads an audio file's playback length.
type DurationProber interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// AlignmentConfig tunes the alignment service.
type AlignmentConfig struct {
	Options         alignment.Options
	MaxConcurrent   int
	FallbackEnabled bool
	DefaultLanguage string
}

// TranscriptAlignment is an alignment computed from a caller-supplied transcript.
type TranscriptAlignment struct {
	Result alignment.Result `json:"result"`
	Report alignment.Report `json:"report"`
}

// SegmentOutcome is one entry of a batch alignment. Exactly one of Alignment
// and Err is set.
type SegmentOutcome struct {
	SegmentID string
	Alignment *domain.Alignment
	Err       error
}

// AlignmentService runs transcribe, align, validate, fallback and persist for
// narration segments.
type AlignmentService struct {
	store       store.Store
	transcriber Transcriber
	prober      DurationProber
	validator   *validation.Validator
	config      AlignmentConfig
	logger      *logger.Logger
	now         func() time.Time
}

// NewAlignmentService creates a new alignment service.
func NewAlignmentService(
	st store.Store,
	transcriber Transcriber,
	prober DurationProber,
	validator *validation.Validator,
	cfg AlignmentConfig,
	log *logger.Logger,
) *AlignmentService {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	return &AlignmentService{
		store:       st,
		transcriber: transcriber,
		prober:      prober,
		validator:   validator,
		config:      cfg,
		logger:      log,
		now:         time.Now,
	}
}

// AlignTranscript aligns sentences against the supplied transcript words and
// validates the outcome.
func (s *AlignmentService) AlignTranscript(_ context.Context, req domain.TranscriptRequest) (*TranscriptAlignment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	opts := s.config.Options
	opts.CaptureWords = req.WithWords
	result := alignment.AlignWithOptions(req.Sentences, req.Words, opts)

	return &TranscriptAlignment{
		Result: result,
		Report: alignment.Validate(result),
	}, nil
}

// Validate reports problems with an alignment result.
func (s *AlignmentService) Validate(result alignment.Result) alignment.Report {
	return alignment.Validate(result)
}

// AlignSegment transcribes one audio segment, aligns its sentences, falls back
// to an even split when the alignment is rejected, and stores the outcome.
func (s *AlignmentService) AlignSegment(ctx context.Context, req domain.SegmentRequest) (*domain.Alignment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	log := s.logger.WithSegment(req.SegmentID)
	start := time.Now()

	language := normalize.LanguageCode(req.Language)
	if language == "" {
		language = s.config.DefaultLanguage
	}

	transcript, err := s.transcriber.Transcribe(ctx, req.AudioPath, language)
	if err != nil {
		return nil, mapTranscriptionError(err, req.AudioPath)
	}
	words := transcript.AlignmentWords()

	opts := s.config.Options
	opts.CaptureWords = req.WithWords
	result := alignment.AlignWithOptions(req.Sentences, words, opts)
	report := alignment.Validate(result)
	durationMs := s.segmentDurationMs(ctx, req.AudioPath, transcript, result)

	strategy := domain.StrategyTranscript
	if !report.IsValid && s.config.FallbackEnabled {
		if durationMs > 0 {
			result = distributeEvenly(result, durationMs)
			strategy = domain.StrategyEven
			log.Warn("alignment rejected, distributed sentences evenly",
				"issues", len(report.Issues),
				"duration_ms", durationMs,
			)
		} else {
			result.Warnings = append(result.Warnings, "Fallback skipped: segment duration unknown")
		}
	}

	alignmentID, err := id.NewAlignmentID()
	if err != nil {
		return nil, fmt.Errorf("generate alignment ID: %w", err)
	}

	record := &domain.Alignment{
		ID:                  alignmentID,
		SegmentID:           req.SegmentID,
		AudioPath:           req.AudioPath,
		Language:            language,
		Strategy:            strategy,
		Result:              result,
		Report:              report,
		TranscriptWordCount: len(words),
		DurationMs:          durationMs,
		CreatedAt:           s.now(),
	}

	if err := s.store.SaveAlignment(ctx, record); err != nil {
		return nil, fmt.Errorf("save alignment: %w", err)
	}

	log.Info("segment aligned",
		"alignment_id", record.ID,
		"strategy", record.Strategy,
		"sentences", record.SentenceCount(),
		"words", record.TranscriptWordCount,
		"confidence", fmt.Sprintf("%.2f", result.AverageConfidence),
		"valid", report.IsValid,
		"took", time.Since(start),
	)
	return record, nil
}

// AlignSegments aligns many segments with at most MaxConcurrent in flight.
// Per-segment failures are reported in the outcomes; the returned error is
// only set when ctx ends before every segment was attempted.
func (s *AlignmentService) AlignSegments(ctx context.Context, reqs []domain.SegmentRequest) ([]SegmentOutcome, error) {
	outcomes := make([]SegmentOutcome, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)

	for i, req := range reqs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := s.AlignSegment(gctx, req)
			outcomes[i] = SegmentOutcome{SegmentID: req.SegmentID, Alignment: a, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	s.logger.Info("batch aligned", "segments", len(reqs), "failed", failed)
	return outcomes, nil
}

// GetAlignment returns a stored alignment.
func (s *AlignmentService) GetAlignment(ctx context.Context, alignmentID string) (*domain.Alignment, error) {
	a, err := s.store.GetAlignment(ctx, alignmentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("alignment %s not found", alignmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("get alignment: %w", err)
	}
	return a, nil
}

// GetLatestForSegment returns the most recent alignment of a segment.
func (s *AlignmentService) GetLatestForSegment(ctx context.Context, segmentID string) (*domain.Alignment, error) {
	a, err := s.store.GetLatestAlignmentForSegment(ctx, segmentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("segment %s has no alignment", segmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("get latest alignment: %w", err)
	}
	return a, nil
}

// DeleteAlignment removes a stored alignment.
func (s *AlignmentService) DeleteAlignment(ctx context.Context, alignmentID string) error {
	err := s.store.DeleteAlignment(ctx, alignmentID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFoundf("alignment %s not found", alignmentID)
	}
	if err != nil {
		return fmt.Errorf("delete alignment: %w", err)
	}
	s.logger.Info("alignment deleted", "alignment_id", alignmentID)
	return nil
}

// segmentDurationMs prefers the audio container's duration, then the
// transcription service's, then the end of the last transcript word.
func (s *AlignmentService) segmentDurationMs(ctx context.Context, audioPath string, transcript *transcription.Transcript, result alignment.Result) int64 {
	if s.prober != nil {
		d, err := s.prober.Duration(ctx, audioPath)
		if err == nil {
			return d.Milliseconds()
		}
		s.logger.WithError(err).Debug("audio probe failed", "audio_path", audioPath)
	}
	if transcript.Duration > 0 {
		return int64(transcript.Duration*1000 + 0.5)
	}
	return result.TotalDurationMs
}

// mapTranscriptionError converts client failures into domain errors.
func mapTranscriptionError(err error, audioPath string) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, transcription.ErrAudioNotFound):
		return domainerrors.NotFoundf("audio file not found: %s", audioPath).WithCause(err)
	case errors.Is(err, transcription.ErrModelNotLoaded):
		return domainerrors.Unavailable("transcription model is still loading").WithCause(err)
	case errors.Is(err, transcription.ErrRateLimited):
		return domainerrors.Unavailable("transcription service is busy").WithCause(err)
	case errors.Is(err, transcription.ErrBadRequest):
		return domainerrors.Validation("transcription request rejected").WithCause(err)
	default:
		return domainerrors.Upstream("transcription failed").WithCause(err)
	}
}

// Component health states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthReport describes the state of the service's dependencies.
type HealthReport struct {
	Status        string                `json:"status"`
	Database      string                `json:"database"`
	Transcription string                `json:"transcription"`
	Whisper       *transcription.Health `json:"whisper,omitempty"`
}

// Health checks the database and the transcription service. A broken database
// makes the service unhealthy; a broken transcription service only degrades it,
// since inline alignment and stored lookups still work.
func (s *AlignmentService) Health(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:        StatusHealthy,
		Database:      StatusHealthy,
		Transcription: StatusHealthy,
	}

	if err := s.store.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("database health check failed")
		report.Database = StatusUnhealthy
		report.Status = StatusUnhealthy
	}

	h, err := s.transcriber.Health(ctx)
	switch {
	case err != nil:
		s.logger.WithError(err).Warn("transcription health check failed")
		report.Transcription = StatusUnhealthy
	case !h.Healthy():
		report.Transcription = StatusUnhealthy
		report.Whisper = h
	default:
		report.Whisper = h
	}
	if report.Transcription != StatusHealthy && report.Status == StatusHealthy {
		report.Status = StatusDegraded
	}
	return report
}
