package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"reviewsense/internal/domain"
	"reviewsense/internal/queue"
	"reviewsense/internal/review"
)

// ReviewService is the part of review.Service the HTTP layer calls.
type ReviewService interface {
	Analyze(ctx context.Context, text, category string) (*review.Analysis, error)
	Submit(ctx context.Context, sub domain.Submission) (*domain.Review, error)
	List(ctx context.Context, place string, limit, offset int) ([]domain.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	Top(ctx context.Context, label domain.Label, limit int) ([]domain.LabelCount, error)
	Aspects(ctx context.Context, category string) ([]string, error)
	AspectStats(ctx context.Context, category, aspect string) (*review.Chart, error)
	AspectStatsByPlace(ctx context.Context, category, aspect string) ([]domain.LabelCount, error)
	StatsByCategory(ctx context.Context, category string) ([]domain.LabelCount, error)
	StatsByPlace(ctx context.Context, place string) ([]domain.LabelCount, error)
}

type Server struct {
	echo      *echo.Echo
	service   ReviewService
	publisher queue.Publisher
	metrics   http.Handler
	sse       *SSEBroker
}

type Option func(*Server)

// WithPublisher enables POST /api/reviews/queue.
func WithPublisher(p queue.Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// WithBroker shares b with the review service so stored reviews reach
// /api/events subscribers.
func WithBroker(b *SSEBroker) Option {
	return func(s *Server) { s.sse = b }
}

func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

func NewServer(svc ReviewService, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:    e,
		service: svc,
		sse:     NewSSEBroker(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics))
	}

	s.echo.POST("/predict", s.predict)

	s.echo.POST("/api/reviews", s.addReview)
	s.echo.GET("/api/reviews", s.getReviews)
	s.echo.GET("/api/reviews/:id", s.getReview)
	s.echo.POST("/api/reviews/queue", s.queueReview)

	s.echo.GET("/api/top10", s.top)
	s.echo.GET("/api/aspects", s.aspects)
	s.echo.GET("/api/aspect-stats", s.aspectStats)
	s.echo.GET("/api/aspect-stats/places", s.aspectStatsByPlace)
	s.echo.GET("/api/stats/category", s.statsByCategory)
	s.echo.GET("/api/stats/place", s.statsByPlace)

	s.echo.GET("/api/events", s.events)
}

func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) Broadcast(msg string) {
	s.sse.Broadcast(msg)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

// fail writes err with the status its class maps to.
func (s *Server) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrModelNotLoaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrReviewNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"kind", review.ErrorKind(err),
			"error", err,
		)
	}

	return c.JSON(status, errorResponse{Error: err.Error()})
}
