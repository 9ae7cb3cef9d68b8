package notifier

import (
	"context"

	"reviewsense/internal/domain"
)

type Notification struct {
	Review domain.Review
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
