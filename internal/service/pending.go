package service

import (
	"context"
	"sync"
	"time"

	"github.com/filebridge/filebridge/internal/domain"
)

// PendingCache holds short-lived upload-to-registry associations keyed by
// (userId, interactionId), bridging an upload event to the later link
// request. Memory only: a restart loses all pending associations, which is
// accepted. Mutated from both the upload and link paths, so every access
// takes the lock.
type PendingCache struct {
	ttl time.Duration
	now func() time.Time // test hook

	mu      sync.Mutex
	entries map[int64]map[int64]domain.PendingAssociation // userId -> interactionId
}

func NewPendingCache(ttl time.Duration) *PendingCache {
	return &PendingCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int64]map[int64]domain.PendingAssociation),
	}
}

func (c *PendingCache) Put(userId, interactionId int64, assoc domain.PendingAssociation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked()

	if assoc.CreatedAt.IsZero() {
		assoc.CreatedAt = c.now()
	}
	byInteraction, ok := c.entries[userId]
	if !ok {
		byInteraction = make(map[int64]domain.PendingAssociation)
		c.entries[userId] = byInteraction
	}
	byInteraction[interactionId] = assoc
}

func (c *PendingCache) Get(userId, interactionId int64) (domain.PendingAssociation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked()

	assoc, ok := c.entries[userId][interactionId]
	return assoc, ok
}

// StartSweeper evicts expired entries periodically until ctx is cancelled.
// Put and Get also sweep lazily, so this only bounds idle memory.
func (c *PendingCache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				c.sweepLocked()
				c.mu.Unlock()
			}
		}
	}()
}

// sweepLocked drops entries older than the TTL and removes a user's sub-map
// once it is empty. Caller holds the lock.
func (c *PendingCache) sweepLocked() {
	cutoff := c.now().Add(-c.ttl)
	for userId, byInteraction := range c.entries {
		for interactionId, assoc := range byInteraction {
			if assoc.CreatedAt.Before(cutoff) {
				delete(byInteraction, interactionId)
			}
		}
		if len(byInteraction) == 0 {
			delete(c.entries, userId)
		}
	}
}
