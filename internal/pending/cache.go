// Package pending owns the transient state between "signup submitted" and
// "OTP verified": an in-memory map from mobile number to the full signup
// payload, swept on a fixed schedule so abandoned signups cannot accumulate.
package pending

import (
	"container/heap"
	"log/slog"
	"sync"
	"time"

	"github.com/fleetdesk-api/internal/domain"
)

// Cache maps mobile number to a not-yet-committed registration. A min-heap of
// eviction deadlines keeps each sweep proportional to the number of expired
// entries rather than the cache size. Overwritten entries leave a stale heap
// item behind; the sweeper discards it when the deadline no longer matches.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*domain.PendingRegistration
	deadlines deadlineHeap
	retention time.Duration

	now  func() time.Time
	stop chan struct{}
	done chan struct{}
}

type deadline struct {
	mobile string
	at     time.Time
}

// New builds a cache and starts its sweeper. Call Stop on shutdown.
func New(retention, sweepInterval time.Duration) *Cache {
	c := &Cache{
		entries:   make(map[string]*domain.PendingRegistration),
		retention: retention,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)
	return c
}

// Put stores a pending registration, replacing any existing entry for the
// same mobile (last writer wins, no merge). The cache keeps its own copy, so
// the caller's struct can be reused or modified freely afterwards.
func (c *Cache) Put(mobile string, p *domain.PendingRegistration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *p
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = c.now().UTC()
	}
	c.entries[mobile] = &cp
	heap.Push(&c.deadlines, deadline{mobile: mobile, at: cp.CreatedAt.Add(c.retention)})
}

// Get returns a copy of the pending registration for mobile, or nil. The
// copy keeps callers from mutating cached state outside the lock; changes
// are applied by writing the modified copy back through Put.
func (c *Cache) Get(mobile string) *domain.PendingRegistration {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[mobile]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// Remove deletes the entry for mobile. Idempotent: removing an absent entry
// is a no-op, so the sweeper and a concurrent verification cannot conflict.
func (c *Cache) Remove(mobile string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, mobile)
}

// Len returns the number of pending registrations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stop terminates the sweeper and waits for it to exit.
func (c *Cache) Stop() {
	close(c.stop)
	<-c.done
}

func (c *Cache) sweepLoop(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := c.sweep(); n > 0 {
				slog.Info("swept expired pending registrations", "count", n)
			}
		case <-c.stop:
			return
		}
	}
}

// sweep pops every elapsed deadline and evicts entries whose age exceeds the
// retention window. Deadlines left behind by an overwrite point either at a
// missing entry or at one with a later eviction time; both are skipped.
func (c *Cache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now().UTC()
	evicted := 0
	for c.deadlines.Len() > 0 {
		d := c.deadlines[0]
		if d.at.After(now) {
			break
		}
		heap.Pop(&c.deadlines)
		p, ok := c.entries[d.mobile]
		if !ok {
			continue
		}
		if p.CreatedAt.Add(c.retention).After(now) {
			continue // entry was overwritten since this deadline was queued
		}
		delete(c.entries, d.mobile)
		evicted++
	}
	return evicted
}

type deadlineHeap []deadline

func (h deadlineHeap) Len() int            { return len(h) }
func (h deadlineHeap) Less(i, j int) bool  { return h[i].at.Before(h[j].at) }
func (h deadlineHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *deadlineHeap) Push(x interface{}) { *h = append(*h, x.(deadline)) }
func (h *deadlineHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
