package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
)

// RetryPolicy bounds retries of transient oracle failures.
type RetryPolicy struct {
	// Attempts is the total number of calls, including the first.
	Attempts uint
	// BaseDelay is the wait before the first retry; it doubles on each retry.
	BaseDelay time.Duration
}

// DefaultRetryPolicy makes 3 attempts starting from a 1s delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: time.Second}
}

type retrying struct {
	next   Oracle
	policy RetryPolicy
	logger *slog.Logger
}

// WithRetry decorates next so that transient failures are retried with
// exponential backoff. Fatal failures are returned immediately. When every
// attempt fails transiently the result is a fatal *Error wrapping
// ErrRetriesExhausted.
func WithRetry(next Oracle, policy RetryPolicy, logger *slog.Logger) Oracle {
	if next == nil {
		panic("next oracle cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if policy.Attempts == 0 {
		policy.Attempts = 1
	}
	return &retrying{
		next:   next,
		policy: policy,
		logger: logger.With(slog.String("component", "oracle_retry")),
	}
}

func (r *retrying) GenerateDistractors(ctx context.Context, req DistractorRequest) ([]string, error) {
	var out []string
	err := r.do(ctx, "generate_distractors", func() error {
		res, err := r.next.GenerateDistractors(ctx, req)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

func (r *retrying) ScoreFreeText(ctx context.Context, req FreeTextRequest) (Score, error) {
	var out Score
	err := r.do(ctx, "score_free_text", func() error {
		res, err := r.next.ScoreFreeText(ctx, req)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

func (r *retrying) do(ctx context.Context, op string, call func() error) error {
	err := retry.Do(
		func() error {
			err := call()
			if err != nil && !IsTransient(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.policy.Attempts),
		retry.Delay(r.policy.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.WarnContext(ctx, "oracle call failed, retrying",
				slog.String("op", op),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Uint64("max_attempts", uint64(r.policy.Attempts)),
				slog.String("error", err.Error()))
		}),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewFatal(op, err)
	}
	if IsTransient(err) {
		return NewFatal(op, fmt.Errorf("%w after %d attempts: %s",
			ErrRetriesExhausted, r.policy.Attempts, err.Error()))
	}
	return err
}
