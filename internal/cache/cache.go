// Package cache holds the read-through view of each brand's post collection.
// The store is the source of truth: entries are invalidated whole after a
// mutation, never patched, and the next read refetches.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

// Loader fetches a brand's posts from the source of truth.
type Loader func(ctx context.Context, brandID string) ([]models.ContentPost, error)

// Options configures entry lifetime and capacity.
type Options struct {
	TTL        time.Duration
	MaxEntries int
}

// Hooks lets the caller count cache traffic; any hook may be nil.
type Hooks struct {
	OnHit        func(brandID string)
	OnMiss       func(brandID string)
	OnInvalidate func(brandID string)
}

type entry struct {
	posts     []models.ContentPost
	expiresAt time.Time
}

// BrandPosts is the process-wide read-through cache keyed by brand.
// Concurrent loads of the same brand are deduplicated.
type BrandPosts struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	loader  Loader
	opts    Options
	hooks   Hooks
	sf      singleflight.Group
}

// NewBrandPosts builds a cache over the given loader.
func NewBrandPosts(loader Loader, opts Options, hooks Hooks) *BrandPosts {
	return &BrandPosts{
		entries: make(map[string]*entry),
		loader:  loader,
		opts:    opts,
		hooks:   hooks,
	}
}

// Get returns the brand's posts, loading through on miss or expiry. Load
// errors are not cached.
func (c *BrandPosts) Get(ctx context.Context, brandID string) ([]models.ContentPost, error) {
	c.mu.RLock()
	e, ok := c.entries[brandID]
	if ok && time.Now().Before(e.expiresAt) {
		posts := e.posts
		c.mu.RUnlock()
		if c.hooks.OnHit != nil {
			c.hooks.OnHit(brandID)
		}
		return posts, nil
	}
	c.mu.RUnlock()

	if c.hooks.OnMiss != nil {
		c.hooks.OnMiss(brandID)
	}

	result, err, _ := c.sf.Do(brandID, func() (any, error) {
		posts, err := c.loader(ctx, brandID)
		if err != nil {
			return nil, err
		}
		c.set(brandID, posts)
		return posts, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.ContentPost), nil
}

// Invalidate drops a brand's entry. Idempotent; the ctx parameter keeps the
// signature uniform with the distributed fanout.
func (c *BrandPosts) Invalidate(_ context.Context, brandID string) {
	c.mu.Lock()
	if _, ok := c.entries[brandID]; ok {
		delete(c.entries, brandID)
		c.removeFromOrder(brandID)
	}
	c.mu.Unlock()

	if c.hooks.OnInvalidate != nil {
		c.hooks.OnInvalidate(brandID)
	}
}

// Len reports the number of live entries.
func (c *BrandPosts) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *BrandPosts) set(brandID string, posts []models.ContentPost) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[brandID]; !exists {
		c.order = append(c.order, brandID)
	}
	c.entries[brandID] = &entry{posts: posts, expiresAt: time.Now().Add(c.opts.TTL)}
	c.evictIfNeeded()
}

func (c *BrandPosts) removeFromOrder(brandID string) {
	for i, k := range c.order {
		if k == brandID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// FIFO eviction; brand collections are few and small, LRU would be overkill.
func (c *BrandPosts) evictIfNeeded() {
	if c.opts.MaxEntries <= 0 {
		return
	}
	for len(c.entries) > c.opts.MaxEntries && len(c.order) > 0 {
		victim := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, victim)
	}
}
