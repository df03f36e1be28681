// Package ratelimit spaces out requests to the same upstream host
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter allows one request per minInterval for each host
type Limiter struct {
	mu          sync.Mutex
	hosts       map[string]*rate.Limiter
	minInterval time.Duration
}

func New(minInterval time.Duration) *Limiter {
	return &Limiter{
		hosts:       make(map[string]*rate.Limiter),
		minInterval: minInterval,
	}
}

// hostKey accepts a bare host or a URL
func hostKey(target string) string {
	if strings.Contains(target, "://") {
		if u, err := url.Parse(target); err == nil && u.Host != "" {
			return strings.ToLower(u.Host)
		}
	}
	return strings.ToLower(target)
}

func (l *Limiter) get(target string) *rate.Limiter {
	key := hostKey(target)

	l.mu.Lock()
	defer l.mu.Unlock()

	rl, ok := l.hosts[key]
	if !ok {
		limit := rate.Inf
		if l.minInterval > 0 {
			limit = rate.Every(l.minInterval)
		}
		rl = rate.NewLimiter(limit, 1)
		l.hosts[key] = rl
	}
	return rl
}

// Allow reports whether a request to host may go now. A refused call does not
// push back the next slot.
func (l *Limiter) Allow(host string) bool {
	return l.get(host).Allow()
}

// Wait blocks until a request to host may go or ctx is done
func (l *Limiter) Wait(ctx context.Context, host string) error {
	return l.get(host).Wait(ctx)
}

// Reset forgets the history of host
func (l *Limiter) Reset(host string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.hosts, hostKey(host))
}

func (l *Limiter) ResetAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hosts = make(map[string]*rate.Limiter)
}
