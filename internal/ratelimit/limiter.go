// Package ratelimit bounds OTP-request and login-attempt frequency per client
// key within fixed windows. Window and threshold are configuration inputs so
// limits can be tuned without a redeploy.
package ratelimit

import (
	"sync"
	"time"

	"github.com/fleetdesk-api/internal/domain"
)

// Bucket names an independently configured limit.
type Bucket string

const (
	BucketOTP   Bucket = "otp"
	BucketLogin Bucket = "login"
)

// BucketConfig is one bucket's window length and maximum count.
type BucketConfig struct {
	Window time.Duration
	Max    int
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter keeps a fixed-window counter per bucket+key. Entries whose window
// elapsed are dropped by a cleanup loop so idle keys do not leak.
type Limiter struct {
	mu      sync.Mutex
	buckets map[Bucket]BucketConfig
	windows map[string]*window

	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

// New builds a limiter with the given bucket configurations and starts its
// cleanup loop. Call Stop on shutdown.
func New(buckets map[Bucket]BucketConfig) *Limiter {
	l := &Limiter{
		buckets: buckets,
		windows: make(map[string]*window),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow records one attempt for key in bucket and reports whether it fits the
// window. Exceeding the threshold returns domain.ErrRateLimited so callers
// can surface a distinct error code. Unknown buckets are unrestricted.
func (l *Limiter) Allow(bucket Bucket, key string) error {
	cfg, ok := l.buckets[bucket]
	if !ok || cfg.Max <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	k := string(bucket) + ":" + key
	w, ok := l.windows[k]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(cfg.Window)}
		l.windows[k] = w
	}
	w.count++
	if w.count > cfg.Max {
		return domain.ErrRateLimited
	}
	return nil
}

// Stop terminates the cleanup loop and waits for it to exit.
func (l *Limiter) Stop() {
	close(l.stop)
	<-l.done
}

// cleanupLoop removes elapsed windows every 5 minutes.
func (l *Limiter) cleanupLoop() {
	defer close(l.done)
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for k, w := range l.windows {
				if !now.Before(w.resetAt) {
					delete(l.windows, k)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}
