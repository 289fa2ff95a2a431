// Package ratelimit implements fixed-window request counters keyed by client.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Rule allows Limit requests per Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, rule Rule) (Result, error)
	Reset(ctx context.Context, key string) error
}

// windowStart truncates now to the start of its fixed window.
func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}

func evaluate(count int64, rule Rule, now time.Time) Result {
	start := windowStart(now, rule.Window)
	res := Result{Allowed: count <= int64(rule.Limit)}
	if remaining := int64(rule.Limit) - count; remaining > 0 {
		res.Remaining = int(remaining)
	}
	if !res.Allowed {
		res.RetryAfter = start.Add(rule.Window).Sub(now)
	}
	return res
}

type memoryWindow struct {
	start time.Time
	count int64
}

// MemoryRateLimiter keeps counters in process. Used when redis is disabled.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, key string, rule Rule) (Result, error) {
	if rule.Limit <= 0 || rule.Window <= 0 {
		return Result{Allowed: true}, nil
	}
	now := l.now()
	start := windowStart(now, rule.Window)
	k := key + ":" + rule.Window.String()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[k]
	if !ok || !w.start.Equal(start) {
		w = &memoryWindow{start: start}
		l.windows[k] = w
		l.sweep(now, rule.Window)
	}
	w.count++
	return evaluate(w.count, rule, now), nil
}

func (l *MemoryRateLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	prefix := key + ":"
	for k := range l.windows {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(l.windows, k)
		}
	}
	return nil
}

// sweep drops windows that ended before the current one. Caller holds mu.
func (l *MemoryRateLimiter) sweep(now time.Time, window time.Duration) {
	cutoff := windowStart(now, window)
	for k, w := range l.windows {
		if w.start.Add(window).Before(cutoff) {
			delete(l.windows, k)
		}
	}
}
