// Package ingest reads third-party review feeds and turns their items into
// submissions.
package ingest

import (
	"context"

	"reviewsense/internal/config"
	"reviewsense/internal/domain"
)

type Source interface {
	Fetch(ctx context.Context, feed config.FeedConfig) ([]domain.Submission, error)
}
