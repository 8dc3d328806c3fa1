// Package analytics keeps the site-wide visitor counter shown on the admin
// dashboard. The counter is stored as its own small JSON record, separate
// from the post collection.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/eringen/pressroom/kv"
)

// StatsKey is the default backend key for the stats record.
const StatsKey = "site_stats"

// ErrMalformed is returned when the stored stats record cannot be decoded.
var ErrMalformed = errors.New("analytics: malformed stats record")

// Stats is the persisted stats record.
type Stats struct {
	TotalViewers int `json:"totalViewers"`
}

// Counter counts site visits. One call to Increment per public page load.
type Counter struct {
	mu      sync.Mutex
	backend kv.Backend
	key     string
}

// NewCounter returns a Counter persisted under key (StatsKey if empty).
func NewCounter(b kv.Backend, key string) *Counter {
	if key == "" {
		key = StatsKey
	}
	return &Counter{backend: b, key: key}
}

func (c *Counter) read(ctx context.Context) (Stats, error) {
	raw, err := c.backend.Get(ctx, c.key)
	if errors.Is(err, kv.ErrNotFound) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("read stats: %w", err)
	}
	var st Stats
	if err := json.Unmarshal(raw, &st); err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return st, nil
}

// Increment adds one visit and returns the new total.
func (c *Counter) Increment(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.read(ctx)
	if err != nil {
		return 0, err
	}
	st.TotalViewers++
	blob, err := json.Marshal(st)
	if err != nil {
		return 0, err
	}
	if err := c.backend.Put(ctx, c.key, blob); err != nil {
		return 0, fmt.Errorf("write stats: %w", err)
	}
	return st.TotalViewers, nil
}

// Total returns the number of visits counted so far.
func (c *Counter) Total(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.read(ctx)
	return st.TotalViewers, err
}

// Reset sets the counter back to zero.
func (c *Counter) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Delete(ctx, c.key)
}
