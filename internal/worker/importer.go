package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reviewsense/internal/config"
	"reviewsense/internal/ingest"
	"reviewsense/internal/queue"
)

// seenTTL bounds how long an imported item ID is remembered.
const seenTTL = 30 * 24 * time.Hour

// SeenStore claims item IDs. MarkSeen reports whether id was new.
type SeenStore interface {
	MarkSeen(ctx context.Context, id string, ttl time.Duration) (bool, error)
	UnmarkSeen(ctx context.Context, id string) error
}

// Importer polls review feeds and queues items it has not queued before.
type Importer struct {
	source    ingest.Source
	publisher queue.Publisher
	seen      SeenStore
	feeds     []config.FeedConfig
	interval  time.Duration
}

func NewImporter(s ingest.Source, p queue.Publisher, seen SeenStore, cfg config.IngestConfig) *Importer {
	if seen == nil {
		seen = NewMemorySeen()
	}
	return &Importer{
		source:    s,
		publisher: p,
		seen:      seen,
		feeds:     cfg.Feeds,
		interval:  cfg.Interval,
	}
}

func (w *Importer) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.importAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.importAll(ctx)
		}
	}
}

func (w *Importer) importAll(ctx context.Context) {
	for _, feed := range w.feeds {
		subs, err := w.source.Fetch(ctx, feed)
		if err != nil {
			slog.Error("fetch feed", "url", feed.URL, "error", err)
			continue
		}

		newCount := 0
		dupCount := 0
		failCount := 0

		for _, sub := range subs {
			isNew, err := w.seen.MarkSeen(ctx, sub.ID, seenTTL)
			if err != nil {
				slog.Error("mark seen", "id", sub.ID, "error", err)
				continue
			}
			if !isNew {
				dupCount++
				continue
			}

			if err := w.publisher.Publish(ctx, sub); err != nil {
				slog.Error("publish submission", "id", sub.ID, "error", err)
				failCount++
				// Release the claim so the next poll retries the item.
				if err := w.seen.UnmarkSeen(ctx, sub.ID); err != nil {
					slog.Error("unmark seen", "id", sub.ID, "error", err)
				}
				continue
			}
			newCount++
			slog.Debug("queued submission", "attraction", sub.Attraction, "review", truncate(sub.Text, 60))
		}

		slog.Info("feed imported",
			"url", feed.URL,
			"fetched", len(subs),
			"new", newCount,
			"duplicates", dupCount,
			"failed", failCount,
		)
	}
}

// MemorySeen is a process-local SeenStore for running without Redis.
type MemorySeen struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func NewMemorySeen() *MemorySeen {
	return &MemorySeen{ids: make(map[string]time.Time)}
}

func (m *MemorySeen) MarkSeen(_ context.Context, id string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if exp, ok := m.ids[id]; ok && now.Before(exp) {
		return false, nil
	}
	m.ids[id] = now.Add(ttl)
	return true, nil
}

func (m *MemorySeen) UnmarkSeen(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, id)
	return nil
}
