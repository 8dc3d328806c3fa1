package views

import (
	"encoding/json"
	"html/template"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/markdown"
)

var funcMap = template.FuncMap{
	"markdown": markdown.HTML,
	"excerpt": func(s string) string {
		return markdown.Plain(s, 160)
	},
	"date": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"isoDate": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	"safeURL":   SafeURL,
	"postURL":   PostURL,
	"pageURL":   PageURL,
	"published": content.Record.IsPublished,
}

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the public path of a post.
func PostURL(slug string) string {
	return "/blog/" + url.PathEscape(slug) + "/"
}

// PageURL is the public path of a page.
func PageURL(slug string) string {
	return "/page/" + url.PathEscape(slug) + "/"
}

// SafeURL lets stored image and attachment values through as URLs. Only
// data URLs, http(s) URLs and site-relative paths are accepted.
func SafeURL(s string) template.URL {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(lower, "data:"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(lower, "/") && !strings.HasPrefix(lower, "//"):
		return template.URL(s)
	}
	return "#"
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(site Site) template.JS {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      BuildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	return marshalJS(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(site Site, post content.Record) template.JS {
	postURL := BuildURL(site.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   markdown.Plain(post.Content, 160),
		"datePublished": post.CreatedAt.UTC().Format(time.RFC3339),
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.UpdatedAt != nil {
		data["dateModified"] = post.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if strings.HasPrefix(post.Image, "https://") || strings.HasPrefix(post.Image, "http://") {
		data["image"] = post.Image
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	return marshalJS(data)
}

// json.Marshal escapes <, > and & so the result is safe inside <script>.
func marshalJS(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
