// Package content holds pressroom's record store: posts and pages kept as
// flat collections, each persisted as one JSON blob in a kv.Backend.
package content

import (
	"strconv"
	"strings"
	"time"
)

// Status is the publication state of a record.
type Status string

const (
	Draft     Status = "draft"
	Published Status = "published"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == Draft || s == Published
}

// Record is a post or a page. Pages never carry views or attachments.
type Record struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	Image          string     `json:"image"`
	Attachment     string     `json:"attachment,omitempty"`
	AttachmentName string     `json:"attachmentName,omitempty"`
	Status         Status     `json:"status"`
	Views          int        `json:"views,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// IsPublished reports whether the record is publicly visible.
func (r Record) IsPublished() bool {
	return r.Status == Published
}

// Attachment is a file payload stored inline as text (usually a data URL).
type Attachment struct {
	Name string
	Data string
}

// Optional marks an input field that may be omitted. An omitted field keeps
// the stored value on update; a set field replaces it, even with "".
type Optional[T any] struct {
	value T
	set   bool
}

// Set returns an Optional holding v.
func Set[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// Input carries the fields accepted by Create and Update. Title, Content and
// Status are always applied; Image and Attachment only when set.
type Input struct {
	Title      string
	Content    string
	Status     Status // empty means Published
	Image      Optional[string]
	Attachment Optional[Attachment]
}

// Collection describes one persisted list of records.
type Collection struct {
	Key         string // backend key holding the JSON array
	Noun        string // singular name, used as a fallback slug
	TracksViews bool
	Attachments bool
	Seed        Input // written when the collection does not exist yet
}

const seedImage = "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=800&auto=format&fit=crop"

// Posts is the blog post collection.
var Posts = Collection{
	Key:         "posts",
	Noun:        "post",
	TracksViews: true,
	Attachments: true,
	Seed: Input{
		Title:   "Welcome to Our New Blog",
		Content: "We are excited to share our stories with you. This post supports view tracking and attachments!",
		Status:  Published,
		Image:   Set(seedImage),
	},
}

// Pages is the static page collection.
var Pages = Collection{
	Key:  "pages",
	Noun: "page",
	Seed: Input{
		Title:   "About Us",
		Content: "Welcome to our blog. We share stories and insights about technology and design.",
		Status:  Published,
		Image:   Set(seedImage),
	},
}

// ParseID converts a textual id (form value, route param) to the stored
// integer representation.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
