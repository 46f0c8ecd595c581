// Package careers holds the per-company fetch adapters. Each adapter talks to
// one careers system (JSON API or HTML page) and emits raw postings for
// reconciliation; selectors and field fallbacks are company-specific.
package careers

import (
	"net/url"
	"strings"
	"time"
)

const (
	userAgent          = "RoleMatcher/1.0"
	adapterHTTPTimeout = 20 * time.Second
)

// isTruncated flags descriptions that are too short to be the full body or
// that carry a continuation marker.
func isTruncated(description string, minLen int) bool {
	if len(description) < minLen {
		return true
	}
	lower := strings.ToLower(description)
	return strings.Contains(lower, "read more") || strings.Contains(lower, "click to view")
}

// absoluteURL resolves a possibly relative posting link against the careers
// page origin.
func absoluteURL(careersURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	base, err := url.Parse(careersURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// externalIDFromURL falls back to the last path segment when a listing
// carries no explicit id attribute.
func externalIDFromURL(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}
