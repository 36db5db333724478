package service

import (
	"sync"
	"time"
)

const (
	// DefaultMaxAttempts is the attempt budget within one window.
	DefaultMaxAttempts = 5

	// DefaultWindow is the sliding window length.
	DefaultWindow = 5 * time.Minute
)

// RateLimiter is a sliding-window attempt counter keyed by identifier
// (username or wallet address). State is process-local and does not survive
// restarts; exceeding the limit is advisory-blocking, the window rolls
// forward on its own.
type RateLimiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	attempts    map[string][]time.Time
	now         func() time.Time
}

// NewRateLimiter builds a limiter; non-positive arguments fall back to the
// defaults.
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Check prunes timestamps older than the window and reports whether the
// identifier may attempt again.
func (l *RateLimiter) Check(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.prune(identifier)) < l.maxAttempts
}

// Record appends the current timestamp to the identifier's attempt history.
func (l *RateLimiter) Record(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.attempts[identifier] = append(l.prune(identifier), l.now())
}

// Reset clears the identifier's history, called after a successful login.
func (l *RateLimiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, identifier)
}

// prune drops attempts older than the window. Caller holds the lock.
func (l *RateLimiter) prune(identifier string) []time.Time {
	cutoff := l.now().Add(-l.window)

	kept := l.attempts[identifier][:0]
	for _, ts := range l.attempts[identifier] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, identifier)
		return nil
	}
	l.attempts[identifier] = kept
	return kept
}
