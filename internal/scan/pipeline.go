// Package scan turns a source's noisy entry pages into a clean,
// deduplicated, date-filtered article list.
package scan

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"

	"github.com/colmyee/mediawire/internal/config"
	"github.com/colmyee/mediawire/internal/datex"
	"github.com/colmyee/mediawire/internal/fetcher"
	"github.com/colmyee/mediawire/internal/sources"
	"github.com/colmyee/mediawire/internal/types"
	"github.com/colmyee/mediawire/internal/urlutil"
)

// scrollJS nudges lazy-loaded listings into rendering before capture.
const scrollJS = `async () => {
	window.scrollTo(0, document.body.scrollHeight);
	await new Promise(r => setTimeout(r, 1200));
	window.scrollTo(0, document.body.scrollHeight);
}`

const (
	minTitleRunes = 4
	abstractRunes = 800
)

// notFoundTitle marks jiqizhixin's "page not found" template.
const notFoundTitle = "找不到您请求的页面"

// SitemapSource provides last-resort URL discovery via robots.txt and
// sitemap traversal.
type SitemapSource interface {
	RootsFromRobots(ctx context.Context, base string) []string
	Walk(ctx context.Context, rootURL string, maxURLs int) []string
}

// Pipeline runs candidate discovery, ranking, probing, and filtering for
// one source at a time. Seen-sets and candidate lists are local to each
// FetchSite call; a Pipeline holds no per-run state.
type Pipeline struct {
	fetcher fetcher.PageFetcher
	sitemap SitemapSource
	cfg     *config.ScanConfig
	logger  *slog.Logger
}

// NewPipeline creates a Pipeline. sm may be nil when sitemap fallback is
// unavailable.
func NewPipeline(f fetcher.PageFetcher, sm SitemapSource, cfg *config.ScanConfig, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: f,
		sitemap: sm,
		cfg:     cfg,
		logger:  logger.With("component", "pipeline"),
	}
}

// FetchSite discovers, probes, and filters articles for one source.
// Failures along the way degrade to fewer results; it never returns an
// error.
func (p *Pipeline) FetchSite(ctx context.Context, src *sources.Profile, days, limit int, targetDate *time.Time) []types.Article {
	candidates := p.discover(ctx, src)

	candidates = dedupCandidates(candidates)
	p.logger.Debug("candidates collected", "source", src.Name, "count", len(candidates))

	candidates = rankByDate(candidates)

	// Bound detail-page fetch cost.
	maxProbe := limit
	if maxProbe < p.cfg.ProbeFloor {
		maxProbe = p.cfg.ProbeFloor
	}
	if len(candidates) > maxProbe {
		candidates = candidates[:maxProbe]
	}
	p.logger.Debug("probing candidates", "source", src.Name, "count", len(candidates))

	var results []types.Article
	probed := 0
	for _, c := range candidates {
		probed++
		article, ok := p.probe(ctx, src, c, days, targetDate)
		if !ok {
			continue
		}
		results = append(results, article)
		p.logger.Debug("article kept",
			"source", src.Name,
			"title", truncateRunes(article.Title, 28),
			"pub_date", article.PubDate,
		)
		if len(results) >= limit {
			break
		}
	}

	p.logger.Info("source scanned",
		"source", src.Name,
		"candidates", len(candidates),
		"probed", probed,
		"kept", len(results),
		"skipped", probed-len(results),
	)
	return results
}

// discover collects candidates from entry pages, the raw-markup fallback
// scraper, and (for eligible sources with nothing else) the sitemap walk.
func (p *Pipeline) discover(ctx context.Context, src *sources.Profile) []types.Candidate {
	var candidates []types.Candidate

	for _, entry := range src.Entries {
		p.logger.Debug("opening entry", "source", src.Name, "url", entry)

		req := fetcher.PageRequest{URL: entry, BypassCache: true}
		if src.ScrollEntries {
			req.JSCode = scrollJS
		}
		res, err := p.fetcher.FetchPage(ctx, req)
		if err != nil {
			p.logger.Warn("entry fetch failed", "url", entry, "error", err)
			continue
		}
		if !res.Success {
			p.logger.Warn("entry fetch failed", "url", entry, "error", res.ErrorMessage)
			continue
		}

		for _, link := range res.Links {
			if link.Href == "" {
				continue
			}
			href := urlutil.Normalize(entry, link.Href)
			if href == "" {
				continue
			}
			title := urlutil.CleanText(link.Text)
			if utf8.RuneCountInString(title) < 2 {
				title = types.PlaceholderTitle
			}
			if !urlutil.IsArticleURL(href) {
				continue
			}
			candidates = append(candidates, types.Candidate{Title: title, URL: href})
		}

		// Structured extraction too sparse: mine the raw markup.
		if len(candidates) < p.cfg.MinCandidates {
			candidates = append(candidates, src.ScrapeFallback(entry, res.HTML)...)
		}
	}

	if src.SitemapFallback && len(candidates) == 0 && p.sitemap != nil {
		candidates = p.sitemapCandidates(ctx, src)
	}
	return candidates
}

// sitemapCandidates walks the source's sitemaps as a last resort; the
// first sitemap root that yields any article URLs wins.
func (p *Pipeline) sitemapCandidates(ctx context.Context, src *sources.Profile) []types.Candidate {
	var out []types.Candidate
	for _, root := range p.sitemap.RootsFromRobots(ctx, src.SitemapBase) {
		for _, leaf := range p.sitemap.Walk(ctx, root, p.cfg.SitemapMaxURLs) {
			u := urlutil.Normalize(src.SitemapBase, leaf)
			if u != "" && urlutil.IsArticleURL(u) {
				out = append(out, types.Candidate{Title: types.PlaceholderTitle, URL: u})
			}
		}
		if len(out) > 0 {
			break
		}
	}
	p.logger.Debug("sitemap fallback", "source", src.Name, "candidates", len(out))
	return out
}

// probe fetches one candidate's detail page and applies the date, title,
// and quality filters. Every failure skips just this candidate.
func (p *Pipeline) probe(ctx context.Context, src *sources.Profile, c types.Candidate, days int, targetDate *time.Time) (types.Article, bool) {
	res, err := p.fetcher.FetchPage(ctx, fetcher.PageRequest{URL: c.URL, BypassCache: true})
	if err != nil {
		p.logger.Warn("detail fetch failed", "url", c.URL, "error", err)
		return types.Article{}, false
	}
	if !res.Success {
		return types.Article{}, false
	}

	pubDate := datex.Extract(res.Text, c.URL)
	if pubDate == "" {
		pubDate = metaDate(res.HTML)
	}
	dt := datex.Parse(pubDate)

	if targetDate != nil {
		// Exact-date mode for daily pushes.
		if dt == nil || !sameDay(*dt, *targetDate) {
			return types.Article{}, false
		}
	} else if dt == nil {
		// Sitemap-fallback sources are exempt from the must-have-a-date
		// rule; their leaves carry no date context.
		if !src.SitemapFallback {
			return types.Article{}, false
		}
	} else if !datex.IsRecent(dt, days) {
		return types.Article{}, false
	}

	title := resolveTitle(c.Title, res.Title)

	cleaned := urlutil.CleanText(res.Text)
	if src.RejectTitle(title) || src.RejectBody(cleaned) {
		return types.Article{}, false
	}
	if title == types.PlaceholderTitle || utf8.RuneCountInString(title) < minTitleRunes {
		return types.Article{}, false
	}
	if strings.Contains(title, notFoundTitle) || strings.Contains(strings.ToLower(title), "404") {
		return types.Article{}, false
	}

	abstract := truncateRunes(cleaned, abstractRunes)
	return types.NewArticle(src.Name, title, c.URL, abstract, pubDate), true
}

// resolveTitle prefers the detail page's own metadata title over the
// anchor text when it is longer or the anchor text is still the
// placeholder. Site-name suffixes after "|" or "-" are dropped.
func resolveTitle(anchorTitle, pageTitle string) string {
	final := anchorTitle
	if pageTitle == "" {
		return final
	}
	t := pageTitle
	if i := strings.Index(t, "|"); i >= 0 {
		t = t[:i]
	}
	if i := strings.Index(t, "-"); i >= 0 {
		t = t[:i]
	}
	t = urlutil.CleanText(t)
	if utf8.RuneCountInString(t) > utf8.RuneCountInString(final) || final == types.PlaceholderTitle {
		final = t
	}
	return final
}

// dedupCandidates drops repeated URLs, first occurrence wins.
func dedupCandidates(candidates []types.Candidate) []types.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0:0]
	for _, c := range candidates {
		if _, ok := seen[c.URL]; ok {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
	}
	return out
}

// rankByDate orders candidates with a URL-extractable date first, newest
// first; undated candidates keep their discovery order at the tail.
func rankByDate(candidates []types.Candidate) []types.Candidate {
	dates := make([]*time.Time, len(candidates))
	for i, c := range candidates {
		if d := datex.Extract("", c.URL); d != "" {
			dates[i] = datex.Parse(d)
		}
	}
	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		da, db := dates[idx[a]], dates[idx[b]]
		if (da != nil) != (db != nil) {
			return da != nil
		}
		if da != nil && db != nil {
			return da.After(*db)
		}
		return false
	})
	out := make([]types.Candidate, len(candidates))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out
}

var metaDateRe = regexp.MustCompile(`202\d[-/]\d{1,2}[-/]\d{1,2}`)

// metaDate scans meta-tag content attributes for a year-like date string,
// the last-ditch source of a publish date.
func metaDate(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}
	doc, err := htmlquery.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	for _, n := range htmlquery.Find(doc, "//meta[@content]") {
		content := htmlquery.SelectAttr(n, "content")
		if metaDateRe.MatchString(content) {
			if d := datex.Extract(content, ""); d != "" {
				return d
			}
		}
	}
	return ""
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
