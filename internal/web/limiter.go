package web

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrBusy is returned when every clean slot stays taken for the whole wait.
var ErrBusy = errors.New("too many concurrent cleans, try again later")

// limiter bounds how many uploads are cleaned at once. Each clean holds
// its registry and a whole workbook in memory.
type limiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int32
}

func newLimiter(maxConcurrent int, maxWait time.Duration) *limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &limiter{slots: make(chan struct{}, maxConcurrent), maxWait: maxWait}
}

// Acquire takes a slot, waiting at most maxWait. Release must follow a nil
// return.
func (l *limiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *limiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Active returns the number of cleans in progress.
func (l *limiter) Active() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no clean is in progress or ctx ends.
func (l *limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
