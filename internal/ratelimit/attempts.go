// Package ratelimit implements the fixed-window failed-attempt limiter used by
// the login endpoint.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

type entry struct {
	count     int
	expiresAt time.Time
}

// AttemptLimiter counts failed attempts per key inside a fixed window. Keys are
// opaque; the login handler uses "lowercased-email|client-ip".
type AttemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*entry

	now func() time.Time
}

func NewAttemptLimiter(max int, window time.Duration) *AttemptLimiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &AttemptLimiter{
		max:     max,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// TooManyAttempts reports whether key is over the limit and, if so, the whole
// seconds until the window frees up.
func (l *AttemptLimiter) TooManyAttempts(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return false, 0
	}
	now := l.now()
	if !now.Before(e.expiresAt) {
		delete(l.entries, key)
		return false, 0
	}
	if e.count < l.max {
		return false, 0
	}
	return true, int(math.Ceil(e.expiresAt.Sub(now).Seconds()))
}

// Hit records one failed attempt. The window starts at the first hit.
func (l *AttemptLimiter) Hit(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || !now.Before(e.expiresAt) {
		l.entries[key] = &entry{count: 1, expiresAt: now.Add(l.window)}
		return
	}
	e.count++
}

// Clear forgets the key, e.g. after a successful login.
func (l *AttemptLimiter) Clear(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}
