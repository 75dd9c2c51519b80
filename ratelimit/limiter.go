// Package ratelimit provides a sliding-window request and token limiter
// for generation calls.
//
// The window slides: only events in the trailing 60 seconds count, so
// there is no thundering-herd reset at bucket boundaries. Admission is
// optimistic (checked against an estimate); accounting is exact when the
// backend reports actual usage. The check-then-record sequence is not
// atomic across concurrent calls, so two calls may both pass Check before
// either Records - accepted, since the limiter is advisory capacity
// control rather than a hard resource guard.
package ratelimit

import (
	"sync"
	"time"
)

const (
	window      = time.Minute
	burstWindow = 10 * time.Second
)

// Config bounds request and token consumption.
type Config struct {
	RequestsPerMinute int
	TokensPerMinute   int
	// BurstLimit caps requests in any 10-second span independent of the
	// per-minute budget. Zero means 10% of RequestsPerMinute, minimum 1.
	BurstLimit int
}

func (c Config) burstLimit() int {
	if c.BurstLimit > 0 {
		return c.BurstLimit
	}
	limit := c.RequestsPerMinute / 10
	if limit < 1 {
		limit = 1
	}
	return limit
}

// Decision is the outcome of an admission check. RetryAfter is the wait
// until the violated budget frees up; zero when Allowed.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Stats is a point-in-time snapshot of window consumption.
type Stats struct {
	RequestsInLastMinute int
	TokensInLastMinute   int
	RequestsRemaining    int
	TokensRemaining      int
}

// entry records one successful request inside the window.
type entry struct {
	at     time.Time
	tokens int
}

// Limiter tracks consumption in a rolling one-minute window. Construct
// one per provider and inject it where needed; there is no process-wide
// registry.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	entries []entry
	now     func() time.Time
}

// New creates a limiter with the given budgets.
func New(cfg Config) *Limiter {
	return &Limiter{cfg: cfg, now: time.Now}
}

// Check decides whether a request costing estimatedTokens may proceed.
// The three budgets are checked independently; the first violated one
// determines RetryAfter.
func (l *Limiter) Check(estimatedTokens int) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	// Per-minute request budget.
	if len(l.entries) >= l.cfg.RequestsPerMinute {
		// A zero budget denies with an empty window.
		retryAfter := window
		if len(l.entries) > 0 {
			retryAfter = l.entries[0].at.Add(window).Sub(now)
		}
		return Decision{RetryAfter: retryAfter}
	}

	// Per-minute token budget. RetryAfter simulates aging out entries
	// oldest-first until enough budget frees up, rather than a flat 60s.
	used := l.tokensInWindow()
	if used+estimatedTokens > l.cfg.TokensPerMinute {
		retryAfter := window
		freed := 0
		for _, e := range l.entries {
			freed += e.tokens
			if used-freed+estimatedTokens <= l.cfg.TokensPerMinute {
				retryAfter = e.at.Add(window).Sub(now)
				break
			}
		}
		return Decision{RetryAfter: retryAfter}
	}

	// Burst budget over the trailing 10 seconds.
	burstLimit := l.cfg.burstLimit()
	burstStart := len(l.entries)
	for i, e := range l.entries {
		if now.Sub(e.at) < burstWindow {
			burstStart = i
			break
		}
	}
	burstCount := len(l.entries) - burstStart
	if burstCount > burstLimit {
		// Wait until enough burst entries age out of the 10s window.
		excess := burstCount - burstLimit
		freesAt := l.entries[burstStart+excess-1].at.Add(burstWindow)
		return Decision{RetryAfter: freesAt.Sub(now)}
	}

	return Decision{Allowed: true}
}

// Record accounts for one completed request. Call only after the remote
// call succeeds, with actual reported usage when available, else the
// original estimate.
func (l *Limiter) Record(actualTokens int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	l.entries = append(l.entries, entry{at: now, tokens: actualTokens})
}

// Stats returns a snapshot of current window consumption.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	used := l.tokensInWindow()
	return Stats{
		RequestsInLastMinute: len(l.entries),
		TokensInLastMinute:   used,
		RequestsRemaining:    max(0, l.cfg.RequestsPerMinute-len(l.entries)),
		TokensRemaining:      max(0, l.cfg.TokensPerMinute-used),
	}
}

// Reset clears all window state. Intended for operators and tests.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// prune drops entries that have aged out of the window. Entries are
// appended in time order, so the suffix after the first live entry stays.
func (l *Limiter) prune(now time.Time) {
	keep := len(l.entries)
	for i, e := range l.entries {
		if now.Sub(e.at) < window {
			keep = i
			break
		}
	}
	l.entries = l.entries[keep:]
}

func (l *Limiter) tokensInWindow() int {
	sum := 0
	for _, e := range l.entries {
		sum += e.tokens
	}
	return sum
}
