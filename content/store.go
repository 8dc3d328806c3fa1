package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eringen/pressroom/kv"
	"github.com/eringen/pressroom/slug"
)

var (
	// ErrInvalidInput is returned when Create or Update input is unusable.
	ErrInvalidInput = errors.New("content: invalid input")

	// ErrStorage is returned when the backend refuses a write. The
	// previously persisted collection is left untouched.
	ErrStorage = errors.New("content: storage write failed")

	// ErrMalformed is returned when the stored collection cannot be decoded.
	ErrMalformed = errors.New("content: malformed stored data")

	// ErrViewsNotTracked is returned by IncrementViews on collections
	// without view counters.
	ErrViewsNotTracked = errors.New("content: collection does not track views")

	// ErrNoViewerCounter is returned by IncrementGlobalViewers when the store
	// was built without a viewer counter.
	ErrNoViewerCounter = errors.New("content: no viewer counter configured")
)

// RecordStore is the record store contract shared by posts and pages.
type RecordStore interface {
	All(ctx context.Context) ([]Record, error)
	Published(ctx context.Context) ([]Record, error)
	ByID(ctx context.Context, id int64) (*Record, error)
	BySlug(ctx context.Context, slug string) (*Record, error)
	Search(ctx context.Context, query string) ([]Record, error)
	Create(ctx context.Context, in Input) (*Record, error)
	Update(ctx context.Context, id int64, in Input) (*Record, error)
	Delete(ctx context.Context, id int64) error
}

var _ RecordStore = (*Store)(nil)

// ViewerCounter is the site-wide visitor counter backing Stats.
type ViewerCounter interface {
	Increment(ctx context.Context) (int, error)
	Total(ctx context.Context) (int, error)
}

// Stats summarizes the post collection for the admin dashboard.
type Stats struct {
	TotalViewers   int `json:"totalViewers"`
	TotalPosts     int `json:"totalPosts"`
	PublishedPosts int `json:"publishedPosts"`
}

// Store is a RecordStore over one Collection. Each mutation reads the whole
// collection, builds the complete next blob and writes it with a single Put.
type Store struct {
	mu      sync.Mutex
	backend kv.Backend
	coll    Collection
	now     func() time.Time
	log     *zap.Logger
	viewers ViewerCounter
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for storage failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithViewerCounter attaches the site-wide visitor counter.
func WithViewerCounter(c ViewerCounter) Option {
	return func(s *Store) { s.viewers = c }
}

// NewStore creates a Store for coll persisted in b.
func NewStore(b kv.Backend, coll Collection, opts ...Option) *Store {
	s := &Store{
		backend: b,
		coll:    coll,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("collection", coll.Key))
	return s
}

// Collection returns the collection this store manages.
func (s *Store) Collection() Collection {
	return s.coll
}

// load must be called with s.mu held. A missing blob is seeded.
func (s *Store) load(ctx context.Context) ([]Record, error) {
	raw, err := s.backend.Get(ctx, s.coll.Key)
	if errors.Is(err, kv.ErrNotFound) {
		return s.seed(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.coll.Key, err)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.Error("stored collection is not valid JSON; refusing to overwrite it", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, s.coll.Key, err)
	}
	return records, nil
}

func (s *Store) seed(ctx context.Context) ([]Record, error) {
	now := s.now()
	rec := Record{
		ID:        now.UnixMilli(),
		Title:     s.coll.Seed.Title,
		Content:   s.coll.Seed.Content,
		Status:    s.coll.Seed.Status,
		CreatedAt: now,
	}
	if rec.Status == "" {
		rec.Status = Published
	}
	rec.Slug = s.uniqueSlug(nil, rec.Title, -1)
	applyOptional(&rec, s.coll.Seed)
	records := []Record{rec}
	if err := s.save(ctx, records); err != nil {
		return nil, err
	}
	s.log.Info("seeded collection", zap.String("slug", rec.Slug))
	return records, nil
}

// save marshals the full collection before touching the backend.
func (s *Store) save(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.coll.Key, err)
	}
	if err := s.backend.Put(ctx, s.coll.Key, blob); err != nil {
		s.log.Warn("write rejected", zap.Int("bytes", len(blob)), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// All returns every record in persisted order.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Published returns published records, newest first.
func (s *Store) Published(ctx context.Context) ([]Record, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range all {
		if r.IsPublished() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ByID returns the record with id, or nil.
func (s *Store) ByID(ctx context.Context, id int64) (*Record, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexByID(all, id); i >= 0 {
		return &all[i], nil
	}
	return nil, nil
}

// BySlug returns the record with slug, or nil.
func (s *Store) BySlug(ctx context.Context, want string) (*Record, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Slug == want {
			return &all[i], nil
		}
	}
	return nil, nil
}

// Search returns records whose title or slug contains query, ignoring case.
func (s *Store) Search(ctx context.Context, query string) ([]Record, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	var out []Record
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Slug), q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Create appends a new record with a fresh id and a collision-free slug.
func (s *Store) Create(ctx context.Context, in Input) (*Record, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := Record{
		ID:        nextID(records, now),
		Title:     in.Title,
		Content:   in.Content,
		Status:    in.Status,
		CreatedAt: now,
	}
	rec.Slug = s.uniqueSlug(records, rec.Title, -1)
	applyOptional(&rec, in)

	if err := s.save(ctx, append(records, rec)); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update rewrites title, content and status of the record with id, applies
// any set optional fields and recomputes the slug. It returns nil when no
// record has that id.
func (s *Store) Update(ctx context.Context, id int64, in Input) (*Record, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByID(records, id)
	if i < 0 {
		return nil, nil
	}

	rec := records[i]
	rec.Title = in.Title
	rec.Content = in.Content
	rec.Status = in.Status
	rec.Slug = s.uniqueSlug(records, in.Title, i)
	applyOptional(&rec, in)
	now := s.now()
	rec.UpdatedAt = &now

	next := make([]Record, len(records))
	copy(next, records)
	next[i] = rec
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes the record with id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexByID(records, id)
	if i < 0 {
		return nil
	}
	next := make([]Record, 0, len(records)-1)
	next = append(next, records[:i]...)
	next = append(next, records[i+1:]...)
	return s.save(ctx, next)
}

// IncrementViews adds one view to the record with id. Unknown ids are a no-op.
func (s *Store) IncrementViews(ctx context.Context, id int64) error {
	if !s.coll.TracksViews {
		return ErrViewsNotTracked
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexByID(records, id)
	if i < 0 {
		return nil
	}
	next := make([]Record, len(records))
	copy(next, records)
	next[i].Views++
	return s.save(ctx, next)
}

// IncrementGlobalViewers counts one site visit.
func (s *Store) IncrementGlobalViewers(ctx context.Context) error {
	if s.viewers == nil {
		return ErrNoViewerCounter
	}
	_, err := s.viewers.Increment(ctx)
	return err
}

// Stats returns the visitor total and post counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	all, err := s.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalPosts: len(all)}
	for _, r := range all {
		if r.IsPublished() {
			st.PublishedPosts++
		}
	}
	if s.viewers != nil {
		if st.TotalViewers, err = s.viewers.Total(ctx); err != nil {
			return Stats{}, err
		}
	}
	return st, nil
}

func (s *Store) validate(in *Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = Published
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}
	if _, ok := in.Attachment.Get(); ok && !s.coll.Attachments {
		return fmt.Errorf("%w: %ss do not take attachments", ErrInvalidInput, s.coll.Noun)
	}
	return nil
}

// uniqueSlug derives a slug from title that no record other than skip uses.
func (s *Store) uniqueSlug(records []Record, title string, skip int) string {
	base := slug.Generate(title)
	if base == "" {
		base = s.coll.Noun
	}
	return slug.Unique(base, func(candidate string) bool {
		for i := range records {
			if i != skip && records[i].Slug == candidate {
				return true
			}
		}
		return false
	})
}

func applyOptional(rec *Record, in Input) {
	if img, ok := in.Image.Get(); ok {
		rec.Image = img
	}
	if att, ok := in.Attachment.Get(); ok {
		rec.Attachment = att.Data
		rec.AttachmentName = att.Name
		if att.Data == "" {
			rec.AttachmentName = ""
		}
	}
}

// nextID is the current unix millisecond, bumped past every existing id so
// two records created within one tick never collide.
func nextID(records []Record, now time.Time) int64 {
	id := now.UnixMilli()
	for _, r := range records {
		if r.ID >= id {
			id = r.ID + 1
		}
	}
	return id
}

func indexByID(records []Record, id int64) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}
