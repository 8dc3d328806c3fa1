package analytics

import "strings"

var botMarkers = []string{
	"bot", "crawler", "spider", "crawl", "slurp", "scrape",
	"yandex", "baidu", "facebookexternalhit", "headlesschrome",
	"curl/", "wget/", "python-requests", "go-http-client",
}

// IsBot reports whether the User-Agent looks like a crawler or a script.
// Such requests are not counted as visitors.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	for _, m := range botMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}
