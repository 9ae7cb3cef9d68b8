package queue

import (
	"context"

	"reviewsense/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, sub domain.Submission) error
	Close() error
}

// Handler processes one submission. A returned error leaves the message
// unacknowledged so it is redelivered.
type Handler func(ctx context.Context, sub domain.Submission) error

type Consumer interface {
	Consume(ctx context.Context, handler Handler) error
	Close() error
}
