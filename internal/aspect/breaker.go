package aspect

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Breaker guards a Tagger with a rate limit and a circuit breaker, so a slow
// or failing model stops being called until it recovers.
type Breaker struct {
	next    Tagger
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewBreaker trips after 5 consecutive failures and retries after 30s.
// A ratePerSecond of 0 disables throttling.
func NewBreaker(next Tagger, ratePerSecond float64) *Breaker {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	return &Breaker{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "aspect-tagger",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state changed",
					"component", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		}),
	}
}

func (b *Breaker) Tag(ctx context.Context, text, category string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}

	out, err := b.cb.Execute(func() (any, error) {
		return b.next.Tag(ctx, text, category)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
