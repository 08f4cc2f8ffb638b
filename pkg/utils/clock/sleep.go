package clock

import (
	"context"
	"time"
)

type ctxSleeperKey struct{}

type Sleeper func(ctx context.Context, d time.Duration) error

// WithSleeper replaces the sleep implementation for the context. Tests use
// this to drive polling loops without wall-clock delay.
func WithSleeper(ctx context.Context, sleeper Sleeper) context.Context {
	return context.WithValue(ctx, ctxSleeperKey{}, sleeper)
}

// Sleep waits for d or until the context is canceled, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if sleeper, ok := ctx.Value(ctxSleeperKey{}).(Sleeper); ok {
		return sleeper(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
