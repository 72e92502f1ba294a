package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ActionGuard enforces a minimum gap between accepted mutating actions per
// key. It is a deterrent against accidental double submits, not a security
// control: state is in memory only and resets on restart.
type ActionGuard struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*rate.Limiter
}

func NewActionGuard(minInterval time.Duration) *ActionGuard {
	return &ActionGuard{
		interval: minInterval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether an action for key may proceed at now. A second call
// strictly inside the interval is rejected, a call at exactly the interval
// boundary is accepted.
func (g *ActionGuard) Allow(key string, now time.Time) bool {
	g.mu.Lock()
	lim, ok := g.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(g.interval), 1)
		g.limiters[key] = lim
	}
	g.mu.Unlock()
	return lim.AllowN(now, 1)
}

// FixedWindow caps calls per key within consecutive wall-clock windows,
// used on the admin verification endpoint.
type FixedWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	counts map[string]*windowCount
}

type windowCount struct {
	start time.Time
	n     int
}

func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:  limit,
		window: window,
		counts: make(map[string]*windowCount),
	}
}

func (f *FixedWindow) Allow(key string, now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.counts[key]
	if !ok || now.Sub(c.start) >= f.window {
		f.counts[key] = &windowCount{start: now, n: 1}
		return true
	}
	if c.n >= f.limit {
		return false
	}
	c.n++
	return true
}
