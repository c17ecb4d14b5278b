package resilience

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

const DefaultMaxConcurrency = 3

// Limiter bounds how many calls hold a slot at once. Waiters are granted
// slots in arrival order.
type Limiter struct {
	sem    *semaphore.Weighted
	size   int64
	active atomic.Int64
	queued atomic.Int64
	peak   atomic.Int64
}

func NewLimiter(size int) *Limiter {
	if size < 1 {
		size = DefaultMaxConcurrency
	}
	return &Limiter{
		sem:  semaphore.NewWeighted(int64(size)),
		size: int64(size),
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.queued.Add(1)
	err := l.sem.Acquire(ctx, 1)
	l.queued.Add(-1)
	if err != nil {
		return err
	}

	active := l.active.Add(1)
	for {
		peak := l.peak.Load()
		if active <= peak || l.peak.CompareAndSwap(peak, active) {
			break
		}
	}
	return nil
}

func (l *Limiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// Do runs fn while holding a slot. The slot is released however fn returns.
func (l *Limiter) Do(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

func (l *Limiter) Size() int { return int(l.size) }

func (l *Limiter) Active() int { return int(l.active.Load()) }

func (l *Limiter) Queued() int { return int(l.queued.Load()) }

// Peak is the highest number of slots ever held at the same time.
func (l *Limiter) Peak() int { return int(l.peak.Load()) }
