// Package ratelimit limits requests per client using token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	limit    int
	lastSeen time.Time
}

// Limiter manages one token bucket per client and endpoint.
type Limiter struct {
	config   *Config
	mu       sync.Mutex
	buckets  map[string]*bucket
	stop     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = NewConfig(10, 20)
	}
	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
		now:     time.Now,
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	key := clientID
	limit, burst := rate.Limit(l.config.Rate), l.config.Burst
	display := int(math.Ceil(l.config.Rate))
	if ec := MatchEndpoint(endpoint, method, l.config.EndpointConfigs); ec != nil {
		if ec.Limit <= 0 {
			return true, Info{Allowed: true}
		}
		key = clientID + ":" + method + ":" + ec.Path
		limit = rate.Every(ec.Window / time.Duration(ec.Limit))
		burst = ec.Burst
		if burst <= 0 {
			burst = ec.Limit
		}
		display = ec.Limit
	}

	now := l.now()
	b := l.bucket(key, limit, burst, display, now)

	res := b.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, Info{Limit: b.limit, ResetTime: now}
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, Info{
			Limit:      b.limit,
			Remaining:  0,
			ResetTime:  now.Add(delay),
			RetryAfter: delay,
		}
	}

	tokens := b.limiter.TokensAt(now)
	return true, Info{
		Allowed:   true,
		Limit:     b.limit,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		ResetTime: now.Add(timeToFull(b.limiter, tokens)),
	}
}

func (l *Limiter) bucket(key string, limit rate.Limit, burst, display int, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(limit, burst), limit: display}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

func timeToFull(lim *rate.Limiter, tokens float64) time.Duration {
	missing := float64(lim.Burst()) - tokens
	if missing <= 0 || lim.Limit() <= 0 {
		return 0
	}
	return time.Duration(missing / float64(lim.Limit()) * float64(time.Second))
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.stop:
			return
		}
	}
}

// cleanupBuckets removes buckets idle for longer than the idle timeout.
func (l *Limiter) cleanupBuckets() {
	idle := l.config.IdleTimeout
	if idle <= 0 {
		idle = time.Hour
	}
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of tracked buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
