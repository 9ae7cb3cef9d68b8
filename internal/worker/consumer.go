package worker

import (
	"context"
	"errors"
	"log/slog"

	"reviewsense/internal/domain"
	"reviewsense/internal/queue"
)

type Submitter interface {
	Submit(ctx context.Context, sub domain.Submission) (*domain.Review, error)
}

// Consumer stores every queued submission through the review service.
type Consumer struct {
	consumer queue.Consumer
	service  Submitter
}

func NewConsumer(c queue.Consumer, s Submitter) *Consumer {
	return &Consumer{consumer: c, service: s}
}

func (w *Consumer) Start(ctx context.Context) error {
	return w.consumer.Consume(ctx, w.handle)
}

// handle returns an error only for failures a redelivery might fix.
func (w *Consumer) handle(ctx context.Context, sub domain.Submission) error {
	slog.Debug("received submission", "id", sub.ID, "review", truncate(sub.Text, 60))

	r, err := w.service.Submit(ctx, sub)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		slog.Warn("dropping invalid submission", "id", sub.ID, "error", err)
		return nil
	case err != nil:
		return err
	}

	slog.Info("submission processed", "id", r.ID, "label", r.Label, "source", r.Source)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
