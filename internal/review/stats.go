package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reviewsense/internal/domain"
)

const defaultTopLimit = 10

// Chart is a labelled pair of tallies, ready for a pie or bar chart.
type Chart struct {
	Labels []domain.Label `json:"labels"`
	Values []int          `json:"values"`
}

// List pages through reviews newest first. A limit of 0 returns every review
// from offset on.
func (s *Service) List(ctx context.Context, place string, limit, offset int) ([]domain.Review, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidInput)
	}
	return s.repo.FindAll(ctx, place, limit, offset)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	return s.repo.FindByID(ctx, id)
}

// Top returns the places with the most reviews of the given label. Any label
// other than Positive ranks by Negative count.
func (s *Service) Top(ctx context.Context, label domain.Label, limit int) ([]domain.LabelCount, error) {
	if label != domain.LabelPositive {
		label = domain.LabelNegative
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	return s.repo.Top(ctx, label, limit)
}

func (s *Service) Aspects(ctx context.Context, category string) ([]string, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	return s.repo.Aspects(ctx, category)
}

func (s *Service) AspectStats(ctx context.Context, category, aspect string) (*Chart, error) {
	if category == "" || aspect == "" {
		return nil, fmt.Errorf("%w: category and aspect are required", domain.ErrInvalidInput)
	}

	c, err := s.repo.AspectCounts(ctx, category, aspect)
	if err != nil {
		return nil, err
	}

	return &Chart{
		Labels: []domain.Label{domain.LabelPositive, domain.LabelNegative},
		Values: []int{c.Positive, c.Negative},
	}, nil
}

// AspectStatsByPlace is ordered by place name.
func (s *Service) AspectStatsByPlace(ctx context.Context, category, aspect string) ([]domain.LabelCount, error) {
	if category == "" || aspect == "" {
		return nil, fmt.Errorf("%w: category and aspect are required", domain.ErrInvalidInput)
	}
	return s.repo.AspectCountsByPlace(ctx, category, aspect)
}

func (s *Service) StatsByCategory(ctx context.Context, category string) ([]domain.LabelCount, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	return s.repo.CountsByPlace(ctx, category)
}

// StatsByPlace groups one place's reviews by aspect.
func (s *Service) StatsByPlace(ctx context.Context, place string) ([]domain.LabelCount, error) {
	if place == "" {
		return nil, fmt.Errorf("%w: place is required", domain.ErrInvalidInput)
	}
	return s.repo.CountsByAspect(ctx, place)
}
