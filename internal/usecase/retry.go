package usecase

import (
	"context"

	"emperror.dev/errors"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-dow/internal/domain"
)

// DefaultMaxAttempts bounds retried fetches.
const DefaultMaxAttempts = 3

// attempt is the outcome of one try: a value or the failure that prevented it.
type attempt[T any] struct {
	value T
	err   error
}

func (a attempt[T]) ok() bool { return a.err == nil }

// retryable reports whether err is a fetch failure worth another try.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, domain.ErrEmptyInput) && !errors.Is(err, domain.ErrRepositoryNotFound)
}

// retry runs op up to maxAttempts times and returns the first success.
// When every attempt fails the last failure is wrapped and returned.
func retry[T any](ctx context.Context, maxAttempts int, logger *zap.Logger, op func(context.Context) (T, error)) (T, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var last attempt[T]
	for n := 1; n <= maxAttempts; n++ {
		v, err := op(ctx)
		last = attempt[T]{value: v, err: err}
		if last.ok() {
			return last.value, nil
		}
		if !retryable(ctx, err) {
			return last.value, err
		}
		logger.Warn("Attempt failed", zap.Int("attempt", n), zap.Int("max_attempts", maxAttempts), zap.Error(err))
	}
	var zero T
	return zero, errors.Wrapf(last.err, "failed after %d attempts", maxAttempts)
}
