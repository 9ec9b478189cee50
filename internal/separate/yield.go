package separate

import (
	"context"
	"runtime"
	"time"
)

// Yielder suspends the pipeline between chunks so one long recording does
// not monopolise the worker. Returning an error stops the run.
type Yielder interface {
	Yield(ctx context.Context) error
}

// YieldFunc adapts a function to Yielder.
type YieldFunc func(ctx context.Context) error

// Yield calls f.
func (f YieldFunc) Yield(ctx context.Context) error {
	return f(ctx)
}

// GoschedYielder hands the processor to other goroutines.
type GoschedYielder struct{}

// Yield checks ctx, then calls runtime.Gosched.
func (GoschedYielder) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	return nil
}

// TimerYielder parks the pipeline on a timer. A zero Delay is a
// zero-duration deferred continuation.
type TimerYielder struct {
	Delay time.Duration
}

// Yield waits for the timer or ctx, whichever comes first.
func (y TimerYielder) Yield(ctx context.Context) error {
	t := time.NewTimer(y.Delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
