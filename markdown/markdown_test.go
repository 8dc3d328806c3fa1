package markdown

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{"bold", "**bold**", []string{"<strong>bold</strong>"}},
		{"italic", "*italic*", []string{"<em>italic</em>"}},
		{"heading id", "## Getting Started", []string{`<h2 id="getting-started">Getting Started</h2>`}},
		{"inline code", "Run `go test` to verify.", []string{"<code>go test</code>"}},
		{"list", "- item 1\n- item 2", []string{"<ul>", "<li>item 1</li>", "<li>item 2</li>"}},
		{"ordered list", "1. first\n2. second", []string{"<ol>", "<li>first</li>"}},
		{"strikethrough", "~~gone~~", []string{"<del>gone</del>"}},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<td>1</td>"}},
		{"link", "[docs](https://go.dev)", []string{`<a href="https://go.dev">docs</a>`}},
		{"plain text post", "We are excited to share our stories.", []string{"<p>We are excited to share our stories.</p>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderMarkdown(&buf, tt.input); err != nil {
				t.Fatalf("RenderMarkdown(%q) error: %v", tt.input, err)
			}
			got := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("RenderMarkdown(%q) = %q, want it to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

func TestRawHTMLIsNotPassedThrough(t *testing.T) {
	got := string(HTML("<script>alert(1)</script>\n\nhello <b>there</b>"))
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Errorf("HTML passed raw markup through: %q", got)
	}
	if !strings.Contains(got, "hello") {
		t.Errorf("HTML dropped text: %q", got)
	}
	if !strings.Contains(got, "raw HTML omitted") {
		t.Errorf("expected raw HTML to be omitted: %q", got)
	}
}

func TestPlain(t *testing.T) {
	tests := []struct {
		input string
		limit int
		want  string
	}{
		{"# Title\n\nSome **bold** text.", 0, "Title Some bold text."},
		{"line one\nline two", 0, "line one line two"},
		{"before\n\n```go\nfmt.Println()\n```\n\nafter", 0, "before after"},
		{"- a\n- b", 0, "a b"},
		{"one two three four five", 12, "one two…"},
		{"short", 10, "short"},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := Plain(tt.input, tt.limit); got != tt.want {
			t.Errorf("Plain(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
		}
	}
}
