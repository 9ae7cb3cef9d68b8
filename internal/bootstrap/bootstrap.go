// Package bootstrap assembles the review service from configuration. Every
// binary that scores reviews starts through Service.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"reviewsense/internal/aspect"
	"reviewsense/internal/config"
	"reviewsense/internal/metrics"
	"reviewsense/internal/model"
	"reviewsense/internal/notifier"
	"reviewsense/internal/redis"
	"reviewsense/internal/review"
	"reviewsense/internal/sentiment"
	"reviewsense/internal/storage"
)

// Deps holds what Service opened. Close releases it in reverse order.
type Deps struct {
	Repo     *storage.Postgres
	Cache    *redis.Client
	Registry *prometheus.Registry
	closers  []func() error
}

func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			slog.Warn("close", "error", err)
		}
	}
}

// Service loads the artifacts, connects storage and the optional cache, and
// returns a ready review service. Artifact failures are fatal to the caller.
func Service(ctx context.Context, cfg *config.Config, opts ...review.Option) (*review.Service, *Deps, error) {
	deps := &Deps{Registry: metrics.NewRegistry()}

	artifacts, err := model.NewLoader(cfg.Artifacts).Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load artifacts: %w", err)
	}
	pipeline := sentiment.NewPipeline(artifacts)

	repo, err := storage.NewPostgres(cfg.Storage.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to storage: %w", err)
	}
	deps.Repo = repo
	deps.closers = append(deps.closers, repo.Close)

	if err := repo.Migrate(ctx); err != nil {
		deps.Close()
		return nil, nil, fmt.Errorf("migrate storage: %w", err)
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(cfg.Redis.Addr, cfg.Redis.TTL)
		if err != nil {
			deps.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		deps.Cache = rdb
		deps.closers = append(deps.closers, rdb.Close)
		opts = append(opts, review.WithCache(rdb))
	}

	if cfg.Notifier.TelegramToken != "" && len(cfg.Notifier.TelegramChatIDs) > 0 {
		opts = append(opts, review.WithNotifier(notifier.NewTelegram(cfg.Notifier.TelegramToken, cfg.Notifier.TelegramChatIDs)))
	}

	m := metrics.NewScoringMetrics(deps.Registry)
	svc := review.NewService(pipeline, Tagger(cfg.Aspect), repo, m, opts...)

	return svc, deps, nil
}

// Tagger returns the OpenRouter tagger behind a circuit breaker, or Nop when
// no API key is configured.
func Tagger(cfg config.AspectConfig) aspect.Tagger {
	if cfg.APIKey == "" {
		slog.Info("aspect tagging disabled, no API key configured")
		return aspect.Nop{}
	}
	return aspect.NewBreaker(aspect.NewOpenRouter(cfg.APIKey, cfg.Model, cfg.BaseURL, cfg.Timeout), cfg.RatePerSecond)
}
