package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter throttles failed attempts per key. Only failures spend tokens,
// so a user who keeps typing the right password is never blocked.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	idle    time.Duration
}

// New allows burst failures per key, refilled at one per every.
// Keys untouched for idle are dropped.
func New(every time.Duration, burst int, idle time.Duration) *Limiter {
	return &Limiter{
		clients: make(map[string]*client),
		r:       rate.Every(every),
		burst:   burst,
		idle:    idle,
	}
}

func (l *Limiter) get(key string, now time.Time) *rate.Limiter {
	// prune stale entries inline; no background goroutine
	for k, c := range l.clients {
		if now.Sub(c.seen) > l.idle {
			delete(l.clients, k)
		}
	}
	if c, ok := l.clients[key]; ok {
		c.seen = now
		return c.lim
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.clients[key] = &client{lim: lim, seen: now}
	return lim
}

// Allowed reports whether key may attempt now without spending a token.
func (l *Limiter) Allowed(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(key, now).TokensAt(now) >= 1
}

// Fail records a failed attempt for key.
func (l *Limiter) Fail(key string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.get(key, now).AllowN(now, 1)
}

// Reset forgets key, e.g. after a successful login.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.clients, key)
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
