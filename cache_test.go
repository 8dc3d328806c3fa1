package pressroom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom/content"
)

type countingStore struct {
	content.RecordStore
	records []content.Record
	calls   int
	err     error
}

func (s *countingStore) Published(context.Context) ([]content.Record, error) {
	s.calls++
	return s.records, s.err
}

func TestContentCacheReusesLoads(t *testing.T) {
	posts := &countingStore{records: []content.Record{{ID: 1, Slug: "first"}}}
	pages := &countingStore{records: []content.Record{{ID: 2, Slug: "about"}}}
	c := NewContentCache(posts, pages, time.Hour)
	ctx := context.Background()

	got, err := c.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	page, err := c.Page(ctx, "about")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, int64(2), page.ID)

	missing, err := c.Page(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Equal(t, 1, posts.calls)
	assert.Equal(t, 1, pages.calls)

	c.Invalidate()
	_, err = c.Pages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, posts.calls)
}

func TestContentCacheEmptyPostsStayCached(t *testing.T) {
	posts := &countingStore{}
	c := NewContentCache(posts, &countingStore{}, time.Hour)

	for i := 0; i < 3; i++ {
		got, err := c.Posts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 1, posts.calls)
}

func TestContentCacheDoesNotKeepErrors(t *testing.T) {
	posts := &countingStore{err: errors.New("backend down")}
	c := NewContentCache(posts, &countingStore{}, time.Hour)

	_, err := c.Posts(context.Background())
	require.Error(t, err)

	posts.err = nil
	posts.records = []content.Record{{ID: 1}}
	got, err := c.Posts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
