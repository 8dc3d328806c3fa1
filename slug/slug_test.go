package slug

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple two words", "Hello World", "hello-world"},
		{"title with year", "Hello World 2026", "hello-world-2026"},
		{"punctuation", "Hello, World! How's it going?", "hello-world-hows-it-going"},
		{"ampersand", "Rock & Roll @ the Arena", "rock-roll-the-arena"},
		{"version number", "Version 2.0.1", "version-201"},
		{"underscores collapse", "snake_case__title", "snake-case-title"},
		{"mixed separators", "a _ - b", "a-b"},
		{"tabs and newlines", "hello\tnew\nworld", "hello-new-world"},
		{"non-breaking space", "hello\u00a0world", "hello-world"},
		{"vertical tab", "a\vb", "a-b"},
		{"byte order mark", "a\ufeffb", "a-b"},
		{"accents stripped", "Café Résumé", "caf-rsum"},
		{"emoji stripped", "Launch 🚀 Day", "launch-day"},
		{"leading and trailing hyphens", "---hello world---", "hello-world"},
		{"leading and trailing spaces", "  hello world  ", "hello-world"},
		{"date-like", "2026-02-25", "2026-02-25"},
		{"seed post", "Welcome to Our New Blog", "welcome-to-our-new-blog"},
		{"empty", "", ""},
		{"only spaces", "     ", ""},
		{"only symbols", "!@#$%^&*()", ""},
		{"only separators", "_-_-_", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateProperties(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{
		"Hello World",
		"  --Ünïcödé  ___ título --  ",
		"İstanbul Straße",
		"tab\tand\r\nline",
		"a--b__c  d",
		"日本語のタイトル",
		"-",
		"x",
		"\u2003em\u2003space\u2003",
		"MiXeD_CaSe-And 123",
	}
	for _, in := range inputs {
		got := Generate(in)
		if !valid.MatchString(got) {
			t.Errorf("Generate(%q) = %q contains characters outside [a-z0-9-]", in, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Generate(%q) = %q has a leading or trailing hyphen", in, got)
		}
		if again := Generate(got); again != got {
			t.Errorf("Generate not idempotent for %q: %q then %q", in, got, again)
		}
	}
}

func TestUnique(t *testing.T) {
	existing := map[string]bool{
		"hello-world":   true,
		"hello-world-1": true,
		"hello-world-3": true,
	}
	taken := func(s string) bool { return existing[s] }

	if got := Unique("fresh", taken); got != "fresh" {
		t.Errorf("Unique(fresh) = %q, want fresh", got)
	}
	if got := Unique("hello-world", taken); got != "hello-world-2" {
		t.Errorf("Unique(hello-world) = %q, want hello-world-2", got)
	}
}
