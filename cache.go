package pressroom

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/pressroom/content"
)

// ContentCache is an in-memory cache of published posts and pages with TTL.
// View counts shown from the cache may lag by up to one TTL; admin
// mutations call Invalidate.
type ContentCache struct {
	mu      sync.RWMutex
	posts   []content.Record
	pages   []content.Record
	fetched time.Time
	ttl     time.Duration
	postSrc content.RecordStore
	pageSrc content.RecordStore
}

// NewContentCache creates a ContentCache over the given stores.
func NewContentCache(posts, pages content.RecordStore, ttl time.Duration) *ContentCache {
	return &ContentCache{postSrc: posts, pageSrc: pages, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.pages = nil
	c.mu.Unlock()
}

func (c *ContentCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.postSrc.Published(ctx)
	if err != nil {
		return err
	}
	pages, err := c.pageSrc.Published(ctx)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []content.Record{}
	}
	c.posts = posts
	c.pages = pages
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and pages after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) ensureLoaded(ctx context.Context) ([]content.Record, []content.Record, error) {
	c.mu.RLock()
	if c.valid() {
		posts, pages := c.posts, c.pages
		c.mu.RUnlock()
		return posts, pages, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.pages, nil
}

// Posts returns published posts, newest first.
func (c *ContentCache) Posts(ctx context.Context) ([]content.Record, error) {
	posts, _, err := c.ensureLoaded(ctx)
	return posts, err
}

// Pages returns published pages, newest first.
func (c *ContentCache) Pages(ctx context.Context) ([]content.Record, error) {
	_, pages, err := c.ensureLoaded(ctx)
	return pages, err
}

// Page returns a published page by slug, or nil.
func (c *ContentCache) Page(ctx context.Context, slug string) (*content.Record, error) {
	_, pages, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		if pages[i].Slug == slug {
			p := pages[i]
			return &p, nil
		}
	}
	return nil, nil
}
