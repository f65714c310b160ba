package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow counts qualifying requests per client over a moving
// time window. State lives in process memory only and does not survive
// a restart.
type SlidingWindow struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	hits      map[string][]time.Time
	lastSweep time.Time
}

func New(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
	}
}

// Allow reports whether clientID may perform another request at now.
// Timestamps older than the window are pruned first; a denied request
// is never recorded, so rejections do not extend the penalty.
func (l *SlidingWindow) Allow(clientID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
		l.lastSweep = now
	}

	cutoff := now.Add(-l.window)
	recent := l.hits[clientID][:0]
	for _, t := range l.hits[clientID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[clientID] = recent
		return false
	}

	l.hits[clientID] = append(recent, now)
	return true
}

// Clients returns how many client keys are currently tracked.
func (l *SlidingWindow) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// sweep drops clients whose newest hit has aged out of the window, so
// the key space stays bounded by recently active clients. Caller holds
// the lock.
func (l *SlidingWindow) sweep(now time.Time) {
	cutoff := now.Add(-l.window)
	for id, times := range l.hits {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(l.hits, id)
		}
	}
}
