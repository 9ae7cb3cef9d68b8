package storage

import (
	"context"

	"github.com/google/uuid"

	"reviewsense/internal/domain"
)

type ReviewRepository interface {
	Save(ctx context.Context, r domain.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	// FindAll returns every matching review when limit is 0.
	FindAll(ctx context.Context, place string, limit, offset int) ([]domain.Review, error)
	Aspects(ctx context.Context, category string) ([]string, error)
	StatsReader
}

// StatsReader serves the positive/negative tallies behind the dashboards.
// Each LabelCount.Key is a place or an aspect depending on the query.
type StatsReader interface {
	Top(ctx context.Context, label domain.Label, limit int) ([]domain.LabelCount, error)
	CountsByPlace(ctx context.Context, category string) ([]domain.LabelCount, error)
	CountsByAspect(ctx context.Context, place string) ([]domain.LabelCount, error)
	AspectCounts(ctx context.Context, category, aspect string) (domain.LabelCount, error)
	AspectCountsByPlace(ctx context.Context, category, aspect string) ([]domain.LabelCount, error)
}
