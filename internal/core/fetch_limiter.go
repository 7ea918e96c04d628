package core

// fetch_limiter.go bounds how many sheet downloads run at once.
//
// The preview server can receive many plan requests in parallel and each one
// downloads the whole export. The limiter hands out slots from a semaphore;
// a caller that cannot get one within maxWait fails with ErrTooManyFetches.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyFetches is returned when every fetch slot stays busy for the
// whole wait. Clients should retry after a short delay.
var ErrTooManyFetches = errors.New("too many concurrent sheet downloads, please try again later")

// DefaultMaxConcurrentFetches is used when the configured limit is not positive.
const DefaultMaxConcurrentFetches = 2

// DefaultMaxFetchWait is used when the configured wait is not positive.
const DefaultMaxFetchWait = 30 * time.Second

// FetchLimiter limits concurrent sheet downloads with a semaphore.
type FetchLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewFetchLimiter creates a limiter that allows at most maxConcurrent
// downloads at once.
func NewFetchLimiter(maxConcurrent int, maxWait time.Duration) *FetchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentFetches
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxFetchWait
	}

	return &FetchLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. The caller must Release it when the download is
// done. A cancelled ctx returns ctx.Err(); an expired wait returns
// ErrTooManyFetches.
func (l *FetchLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyFetches
	}
}

// Release frees a slot taken by Acquire.
func (l *FetchLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of downloads holding a slot.
func (l *FetchLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Available returns the number of free slots.
func (l *FetchLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}
