// Package datex extracts and parses publish dates from page text and URL
// paths, tolerating both Western separators and the CJK 年/月/日 markers.
package datex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	textDateRe = regexp.MustCompile(`(20\d{2})[-/年](\d{1,2})[-/月](\d{1,2})`)
	urlDateRe  = regexp.MustCompile(`(20\d{2})[/-](\d{1,2})[/-](\d{1,2})`)
	wsRe       = regexp.MustCompile(`\s+`)
)

// Extract pulls a calendar date out of free text, falling back to the URL
// path. Text wins over URL because in-page publish dates are more
// reliable than path-embedded ones, which may reflect categorization.
// Returns "YYYY-MM-DD" or "" when neither matches.
func Extract(text, url string) string {
	if m := textDateRe.FindStringSubmatch(text); m != nil {
		return format(m)
	}
	if m := urlDateRe.FindStringSubmatch(url); m != nil {
		return format(m)
	}
	return ""
}

func format(m []string) string {
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
}

// Layouts tried in order against the first 19 characters. Non-padded so
// single-digit months and days parse too.
var layouts = []string{"2006-1-2", "2006-1-2 15:04", "2006-1-2 15:04:05"}

// Parse normalizes CJK date separators and attempts the known exact
// formats. Returns nil when nothing parses; it never panics.
func Parse(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	r := strings.NewReplacer("年", "-", "月", "-", "日", "", "/", "-")
	s = wsRe.ReplaceAllString(r.Replace(s), " ")
	if len(s) > 19 {
		s = s[:19]
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// IsRecent reports whether t falls within the last `days` days. A window
// of zero or less disables filtering entirely and returns true even for a
// nil time; otherwise a nil time is never recent.
func IsRecent(t *time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	if t == nil {
		return false
	}
	return !t.Before(time.Now().AddDate(0, 0, -days))
}
