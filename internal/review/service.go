// Package review ties sentiment scoring to the rest of the service: aspect
// tagging, the score cache, persistence, live updates and alerts.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reviewsense/internal/aspect"
	"reviewsense/internal/domain"
	"reviewsense/internal/metrics"
	"reviewsense/internal/notifier"
	"reviewsense/internal/storage"
)

// Placeholder stored for attraction fields a client left blank.
const unknownField = "-"

type Scorer interface {
	Score(text string) (*domain.ScoreResult, error)
	Fingerprint() string
}

type ScoreCache interface {
	GetScore(ctx context.Context, fingerprint, text string) (*domain.ScoreResult, error)
	SetScore(ctx context.Context, fingerprint, text string, res *domain.ScoreResult) error
}

type Broadcaster interface {
	Broadcast(msg string)
}

// Analysis is a scored review plus its aspect.
type Analysis struct {
	*domain.ScoreResult
	Review string `json:"review"`
	Aspect string `json:"aspect"`
}

type Service struct {
	scorer      Scorer
	tagger      aspect.Tagger
	repo        storage.ReviewRepository
	metrics     *metrics.ScoringMetrics
	cache       ScoreCache
	notifier    notifier.Notifier
	broadcaster Broadcaster
	now         func() time.Time
}

type Option func(*Service)

func WithCache(c ScoreCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithNotifier sends an alert for every persisted Negative review.
func WithNotifier(n notifier.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

func NewService(scorer Scorer, tagger aspect.Tagger, repo storage.ReviewRepository, m *metrics.ScoringMetrics, opts ...Option) *Service {
	s := &Service{
		scorer:  scorer,
		tagger:  tagger,
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze scores text and tags its aspect without persisting anything.
func (s *Service) Analyze(ctx context.Context, text, category string) (*Analysis, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: review is required", domain.ErrInvalidInput)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}

	res, err := s.score(ctx, text)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		ScoreResult: res,
		Review:      text,
		Aspect:      s.tag(ctx, text, category),
	}, nil
}

func (s *Service) score(ctx context.Context, text string) (*domain.ScoreResult, error) {
	fingerprint := s.scorer.Fingerprint()

	if s.cache != nil && fingerprint != "" {
		cached, err := s.cache.GetScore(ctx, fingerprint, text)
		switch {
		case err != nil:
			s.metrics.CacheRequests.WithLabelValues("error").Inc()
			slog.Warn("score cache read failed", "error", err)
		case cached != nil:
			s.metrics.CacheRequests.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			s.metrics.CacheRequests.WithLabelValues("miss").Inc()
		}
	}

	start := time.Now()
	res, err := s.scorer.Score(text)
	s.metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ScoringErrors.WithLabelValues(ErrorKind(err)).Inc()
		return nil, err
	}
	s.metrics.ReviewsScored.WithLabelValues(string(res.Label)).Inc()

	if s.cache != nil && fingerprint != "" {
		if err := s.cache.SetScore(ctx, fingerprint, text, res); err != nil {
			slog.Warn("score cache write failed", "error", err)
		}
	}

	return res, nil
}

// tag never fails: a tagger error degrades the aspect to Other.
func (s *Service) tag(ctx context.Context, text, category string) string {
	a, err := s.tagger.Tag(ctx, text, category)
	if err != nil {
		s.metrics.AspectRequests.WithLabelValues("error").Inc()
		slog.Warn("aspect tagging failed", "category", category, "error", err)
		return aspect.Other
	}
	s.metrics.AspectRequests.WithLabelValues("ok").Inc()
	return aspect.Strip(a)
}

// Submit analyzes a submission and persists the resulting review. A
// submission ID that is a UUID becomes the review ID, so redelivered
// submissions are stored once.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) (*domain.Review, error) {
	analysis, err := s.Analyze(ctx, sub.Text, sub.Category)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(sub.ID)
	if err != nil {
		id = uuid.New()
	}

	createdAt := sub.ReceivedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	source := sub.Source
	if source == "" {
		source = domain.SourceAPI
	}

	r := domain.Review{
		ID:                 id,
		AttractionThaiName: orUnknown(sub.AttractionThaiName),
		Category:           sub.Category,
		Attraction:         orUnknown(sub.Attraction),
		Text:               sub.Text,
		Label:              analysis.Label,
		Score:              analysis.RawScore,
		Emojis:             analysis.Emojis,
		EmojiScalar:        analysis.EmojiScalar,
		Aspect:             analysis.Aspect,
		Source:             source,
		CreatedAt:          createdAt.UTC(),
	}

	if err := s.repo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	slog.Info("review stored",
		"id", r.ID,
		"attraction", r.Attraction,
		"label", r.Label,
		"score", r.Score,
		"aspect", r.Aspect,
	)

	if s.broadcaster != nil {
		if data, err := json.Marshal(r); err == nil {
			s.broadcaster.Broadcast(string(data))
		}
	}

	if s.notifier != nil && r.Label == domain.LabelNegative {
		if err := s.notifier.Notify(ctx, notifier.Notification{Review: r}); err != nil {
			slog.Error("notify failed", "id", r.ID, "error", err)
		}
	}

	return &r, nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknownField
	}
	return s
}

// ErrorKind names the error class of a scoring failure for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrModelNotLoaded):
		return "model_not_loaded"
	case errors.Is(err, domain.ErrDimension):
		return "dimension"
	case errors.Is(err, domain.ErrModelComputation):
		return "computation"
	default:
		return "internal"
	}
}
