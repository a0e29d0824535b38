// Package urlutil cleans and classifies the noisy link soup that entry
// pages and sitemaps produce: whitespace collapsing, relative-URL
// resolution, redirect-wrapper unwrapping, and the article-vs-listing
// path heuristics.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	wsRe        = regexp.MustCompile(`\s+`)
	absURLRe    = regexp.MustCompile(`https?://[^"'\s<>]+`)
	schemeRe    = regexp.MustCompile(`^https?://`)
	wrappedRe   = regexp.MustCompile(`^https?://[^/]+/(https?://.+)$`)
	datedPathRe = regexp.MustCompile(`/20\d{2}/\d{1,2}/\d+\.html$`)
)

// CleanText collapses any run of whitespace to a single space and trims.
func CleanText(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// Normalize turns a raw href into an absolute, fragment-stripped URL
// resolved against base. It handles slash-escaped markup, redirect
// wrappers that embed the real target after another absolute URL, noise
// prefixes before a single absolute URL, and URLs wrapped inside another
// authority (http://host/http://...). The function is idempotent:
// Normalize(base, Normalize(base, u)) == Normalize(base, u).
func Normalize(base, raw string) string {
	if raw == "" {
		return ""
	}

	u := strings.ReplaceAll(strings.TrimSpace(raw), `\/`, "/")

	// When several absolute URLs are embedded, the last one is the real
	// target (redirect wrappers put it at the end).
	abs := absURLRe.FindAllString(u, -1)
	if len(abs) >= 2 {
		u = abs[len(abs)-1]
	} else if len(abs) == 1 && !strings.HasPrefix(u, abs[0]) {
		// e.g. "xxx https://a.com/1"
		u = abs[0]
	}

	if !schemeRe.MatchString(u) {
		u = resolve(base, u)
	}

	// Unwrap http(s)://host/http(s)://... to the inner URL.
	if m := wrappedRe.FindStringSubmatch(u); m != nil {
		u = m[1]
	}

	if i := strings.Index(u, "#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimSpace(u)
}

// resolve applies standard relative-URL resolution, falling back to the
// raw reference when either side fails to parse.
func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// Fragments that mark tag/category/listing pages rather than articles.
var listingFragments = []string{"/tag/", "/tags/", "/category/", "/author/", "javascript:", "#"}

// Source-specific non-article paths: meeting pages, shortlist pages,
// short-URL redirectors.
var denyFragments = []string{"/meet/", "ai_shortlist", "/short_urls/"}

// IsArticleURL reports whether a URL plausibly points to an article
// rather than a tag/category/listing page. Checks are case-insensitive
// over the whole URL and the first match wins.
func IsArticleURL(rawURL string) bool {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	pu, err := url.Parse(u)
	if err != nil {
		return false
	}

	if pu.Path == "" || pu.Path == "/" {
		return false
	}
	if pu.RawQuery != "" && strings.Contains(pu.RawQuery, "author=") {
		return false
	}
	for _, frag := range listingFragments {
		if strings.Contains(u, frag) {
			return false
		}
	}
	for _, frag := range denyFragments {
		if strings.Contains(u, frag) {
			return false
		}
	}

	if datedPathRe.MatchString(u) {
		return true
	}
	if strings.HasSuffix(u, ".html") {
		return true
	}
	if i := strings.LastIndex(u, "/articles/"); i >= 0 && len(u[i+len("/articles/"):]) > 3 {
		return true
	}

	// Depth heuristic: listing pages rarely nest three path segments deep.
	depth := 0
	for _, seg := range strings.Split(pu.Path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth >= 3
}
