package pressroom

import "github.com/eringen/pressroom/views"

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	return views.BuildURL(base, pathSegments...)
}
