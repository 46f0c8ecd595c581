package adapter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockBreakExpr = regexp.MustCompile(`(?i)<(?:br\s*/?|/p|/div|/li|/tr|/h[1-6])\s*>`)

// NormalizeText strips HTML from a posting body while preserving paragraph
// breaks, so descriptions stay readable and keyword search sees plain text.
// Input that is not HTML passes through with whitespace cleanup only.
func NormalizeText(raw string) string {
	withBreaks := blockBreakExpr.ReplaceAllString(raw, "\n")

	text := withBreaks
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(withBreaks)); err == nil {
		text = doc.Text()
	}

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
