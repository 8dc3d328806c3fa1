package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pressroom/content"
)

var site = Site{Name: "Field Notes", URL: "https://example.com", Author: "Ada"}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func record(title, slug string) content.Record {
	return content.Record{
		ID:        1,
		Title:     title,
		Slug:      slug,
		Content:   "Hello **world**",
		Status:    content.Published,
		Views:     7,
		CreatedAt: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewParsesEveryPage(t *testing.T) {
	s, err := New(site)
	require.NoError(t, err)
	for _, name := range pageNames {
		assert.NotNil(t, s.templates[name], name)
	}
}

func TestHomeShowsLatestThree(t *testing.T) {
	s := must(New(site))
	posts := []content.Record{
		record("One", "one"), record("Two", "two"), record("Three", "three"), record("Four", "four"),
	}
	out := render(t, s.Home(Chrome{}, posts))

	assert.Contains(t, out, `href="/blog/one/"`)
	assert.Contains(t, out, `href="/blog/three/"`)
	assert.NotContains(t, out, `href="/blog/four/"`)
	assert.Contains(t, out, "<title>Field Notes</title>")
	assert.Contains(t, out, `"@type":"WebSite"`)
}

func TestHomeEmpty(t *testing.T) {
	out := render(t, must(New(site)).Home(Chrome{}, nil))
	assert.Contains(t, out, "No posts published yet.")
}

func TestPostRendersMarkdownAndAttachment(t *testing.T) {
	s := must(New(site))
	post := record("Launch <day>", "launch-day")
	post.Attachment = "data:application/pdf;base64,JVBERi0="
	post.AttachmentName = "notes.pdf"
	post.Image = "javascript:alert(1)"

	out := render(t, s.Post(Chrome{Meta: Meta{Title: post.Title}}, post))

	assert.Contains(t, out, "<strong>world</strong>")
	assert.Contains(t, out, "Launch &lt;day&gt;")
	assert.Contains(t, out, `href="data:application/pdf;base64,JVBERi0="`)
	assert.Contains(t, out, `download="notes.pdf"`)
	assert.Contains(t, out, "7 views")
	assert.Contains(t, out, "March 4, 2026")
	assert.NotContains(t, out, "javascript:")
}

func TestNavListsPages(t *testing.T) {
	s := must(New(site))
	ch := Chrome{Nav: []content.Record{record("About Us", "about-us")}}
	out := render(t, s.Feed(ch, nil))
	assert.Contains(t, out, `href="/page/about-us/"`)
	assert.NotContains(t, out, "/admin/\">Dashboard")
}

func TestDashboard(t *testing.T) {
	s := must(New(site))
	draft := record("Work in progress", "work-in-progress")
	draft.ID = 42
	draft.Status = content.Draft
	d := Dashboard{
		Stats:   content.Stats{TotalViewers: 12, TotalPosts: 1},
		Posts:   []content.Record{draft},
		Message: "Post saved.",
	}
	out := render(t, s.Dashboard(Chrome{CSRF: "tok", LoggedIn: true}, d))

	assert.Contains(t, out, "Post saved.")
	assert.Contains(t, out, "<strong>12</strong>")
	assert.Contains(t, out, `action="/admin/posts/42/delete/"`)
	assert.Contains(t, out, `name="_csrf" value="tok"`)
	assert.Contains(t, out, "status-draft")
	assert.Contains(t, out, "No pages yet.")
	assert.Contains(t, out, `src="/public/admin.js"`)
}

func TestFormSelectsStatus(t *testing.T) {
	s := must(New(site))
	rec := record("Draft", "draft")
	rec.Status = content.Draft
	out := render(t, s.Form(Chrome{}, Form{Kind: "posts", Noun: "post", Attachments: true, Record: rec}))

	assert.Contains(t, out, `<option value="draft" selected>`)
	assert.Contains(t, out, `action="/admin/posts/save/"`)
	assert.Contains(t, out, `name="attachment"`)

	out = render(t, s.Form(Chrome{}, Form{Kind: "pages", Noun: "page", IsNew: true}))
	assert.Contains(t, out, `<option value="published" selected>`)
	assert.NotContains(t, out, `name="attachment"`)
	assert.NotContains(t, out, `name="id"`)
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://images.example.com/a.jpg", "https://images.example.com/a.jpg"},
		{"data:image/jpeg;base64,AAAA", "data:image/jpeg;base64,AAAA"},
		{"/public/logo.svg", "/public/logo.svg"},
		{"//evil.example.com/x", "#"},
		{"javascript:alert(1)", "#"},
		{"", "#"},
	}
	for _, tt := range tests {
		if got := string(SafeURL(tt.in)); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
