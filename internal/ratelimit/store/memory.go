// Package store holds the in-process fixed-window counters. State is
// per-instance and rebuilt from zero on restart; that is the design, not a
// gap.
package store

import (
	"sync"
	"time"

	"sudsy/internal/ratelimit/models"
)

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow counts requests per key in fixed windows. The first request for
// a fresh (or elapsed) key opens a new window; the counter resets entirely at
// the window boundary.
type FixedWindow struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewFixedWindow() *FixedWindow {
	return &FixedWindow{windows: make(map[string]*window)}
}

// Allow admits or rejects one request under the policy and reports the
// window's state. Keys are fully independent.
func (s *FixedWindow) Allow(key string, policy models.Policy, now time.Time) models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(policy.Window)}
		s.windows[key] = w
	}
	w.count++

	remaining := policy.Limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	result := models.Result{
		Allowed:   w.count <= policy.Limit,
		Limit:     policy.Limit,
		Remaining: remaining,
		ResetAt:   w.resetAt,
	}
	if !result.Allowed {
		d := w.resetAt.Sub(now)
		retry := int((d + time.Second - 1) / time.Second)
		if retry < 1 {
			retry = 1
		}
		result.RetryAfter = retry
	}
	return result
}

// Sweep drops windows that elapsed before now, bounding memory between
// restarts.
func (s *FixedWindow) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len reports the live window count. Test and metrics hook.
func (s *FixedWindow) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
