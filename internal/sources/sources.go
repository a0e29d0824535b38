// Package sources holds the per-site profiles: entry pages, fallback URL
// patterns for mining raw markup, and the quality rules that differ
// between sites. The pipeline stays source-agnostic by dispatching
// through a Profile instead of branching on source names.
package sources

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/colmyee/mediawire/internal/types"
	"github.com/colmyee/mediawire/internal/urlutil"
)

// Profile describes one configured media source.
type Profile struct {
	// Name tags records produced from this source.
	Name string

	// Entries are the landing/listing pages used for link discovery.
	Entries []string

	// ScrollEntries triggers a scroll-and-wait script on entry pages to
	// surface lazy-loaded links before capture.
	ScrollEntries bool

	// absPatterns match absolute article URLs in raw markup; pathPatterns
	// match path-only forms that get resolved against the entry URL.
	absPatterns  []*regexp.Regexp
	pathPatterns []*regexp.Regexp

	// SitemapFallback marks the source whose candidates may come from a
	// robots.txt/sitemap walk when entry pages yield nothing. The same
	// source is exempt from the must-have-a-date rule, since sitemap
	// leaves carry no date context.
	SitemapFallback bool

	// SitemapBase is the site root used for robots.txt discovery.
	SitemapBase string

	// BadTitles rejects listing/placeholder/error pages by title.
	BadTitles []string

	// MinBodyChars rejects detail pages whose cleaned text is shorter,
	// guarding against empty template pages. Zero disables the check.
	MinBodyChars int
}

// Defaults returns the configured source set in scan order.
func Defaults() []*Profile {
	return []*Profile{
		{
			Name:          "qbitai",
			Entries:       []string{"https://www.qbitai.com/"},
			ScrollEntries: true,
			absPatterns: []*regexp.Regexp{
				regexp.MustCompile(`https?://(?:www\.)?qbitai\.com/20\d{2}/\d{2}/\d+\.html`),
			},
			pathPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(/20\d{2}/\d{2}/\d+\.html)`),
			},
		},
		{
			Name:          "xinzhiyuan",
			Entries:       []string{"https://www.aiera.com.cn/", "https://aiera.com.cn/"},
			ScrollEntries: true,
			absPatterns: []*regexp.Regexp{
				regexp.MustCompile(`https?://(?:www\.)?aiera\.com\.cn/20\d{2}/\d{2}/\d{2}/[^"'<>\s]+`),
			},
			pathPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(/20\d{2}/\d{2}/\d{2}/[^"'<>\s]+)`),
			},
		},
		{
			Name:          "jiqizhixin",
			Entries:       []string{"https://www.jiqizhixin.com/"},
			ScrollEntries: true,
			absPatterns: []*regexp.Regexp{
				regexp.MustCompile(`https?://(?:www\.)?jiqizhixin\.com/articles/[^"'<>\s]+`),
			},
			pathPatterns: []*regexp.Regexp{
				regexp.MustCompile(`(/articles/[^"'<>\s]+)`),
			},
			SitemapFallback: true,
			SitemapBase:     "https://www.jiqizhixin.com",
			BadTitles:       []string{"文章库", "找不到您请求的页面", "404"},
			MinBodyChars:    200,
		},
	}
}

// ByName returns the profile with the given name, or nil.
func ByName(profiles []*Profile, name string) *Profile {
	for _, p := range profiles {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ScrapeFallback mines raw page markup for this source's article URL
// patterns. It is a deliberately narrow mechanism used only when the
// rendering engine's structured link list is too sparse. Returned
// candidates carry the placeholder title and have already passed the
// article classifier.
func (p *Profile) ScrapeFallback(entryURL, rawHTML string) []types.Candidate {
	if rawHTML == "" {
		return nil
	}
	h := strings.ReplaceAll(html.UnescapeString(rawHTML), `\/`, "/")

	// Insertion-ordered set: deterministic output for deterministic markup.
	seen := make(map[string]struct{})
	var urls []string
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, re := range p.absPatterns {
		for _, m := range re.FindAllString(h, -1) {
			add(m)
		}
	}
	for _, re := range p.pathPatterns {
		for _, m := range re.FindAllStringSubmatch(h, -1) {
			add(urlutil.Normalize(entryURL, m[1]))
		}
	}

	var out []types.Candidate
	for _, u := range urls {
		if urlutil.IsArticleURL(u) {
			out = append(out, types.Candidate{Title: types.PlaceholderTitle, URL: u})
		}
	}
	return out
}

// RejectTitle reports whether a resolved title matches this source's
// listing/placeholder/error denylist.
func (p *Profile) RejectTitle(title string) bool {
	for _, bad := range p.BadTitles {
		if strings.Contains(title, bad) {
			return true
		}
	}
	return false
}

// RejectBody reports whether the cleaned detail-page text is too short
// for this source.
func (p *Profile) RejectBody(cleaned string) bool {
	return p.MinBodyChars > 0 && utf8.RuneCountInString(cleaned) < p.MinBodyChars
}
