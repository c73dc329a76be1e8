package oracle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval is the default spacing between oracle calls.
const DefaultMinInterval = 500 * time.Millisecond

type rateLimited struct {
	next    Oracle
	limiter *rate.Limiter
}

// WithRateLimit decorates next so that consecutive calls are at least
// interval apart. A non-positive interval disables spacing.
func WithRateLimit(next Oracle, interval time.Duration) Oracle {
	if next == nil {
		panic("next oracle cannot be nil")
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (r *rateLimited) GenerateDistractors(ctx context.Context, req DistractorRequest) ([]string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, NewFatal("generate_distractors", err)
	}
	return r.next.GenerateDistractors(ctx, req)
}

func (r *rateLimited) ScoreFreeText(ctx context.Context, req FreeTextRequest) (Score, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Score{}, NewFatal("score_free_text", err)
	}
	return r.next.ScoreFreeText(ctx, req)
}
