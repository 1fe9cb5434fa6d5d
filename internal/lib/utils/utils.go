// Package utils contains small text helpers used across the project.
package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeps     = regexp.MustCompile(`[\s-]+`)
)

// Slugify turns a title into a URL slug: "React Summit  2025!" becomes
// "react-summit-2025". Non-ASCII letters are dropped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSeps.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SanitizeSlug is the lookup-side normalization applied to path params.
func SanitizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// NormalizeDate parses common date spellings and returns YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

var timeLayouts = []string{
	TimeLayout,
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
	"3 PM",
	"3PM",
}

// NormalizeTime parses 24h and 12h clock spellings ("10:00 AM", "14:30")
// and returns HH:MM.
func NormalizeTime(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized time %q", s)
}

// NormalizeTags trims and lower-cases tags, dropping blanks and duplicates
// while keeping the first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// TrimAll trims every item and drops the blank ones.
func TrimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
