package scan

import (
	"context"
	"log/slog"
	"time"

	"github.com/colmyee/mediawire/internal/config"
	"github.com/colmyee/mediawire/internal/fetcher"
	"github.com/colmyee/mediawire/internal/sitemap"
	"github.com/colmyee/mediawire/internal/sources"
	"github.com/colmyee/mediawire/internal/types"
)

// Aggregator runs the per-source pipeline across all configured sources
// with one shared browser session, merges the results, and deduplicates
// globally by (title, url).
type Aggregator struct {
	cfg      *config.Config
	logger   *slog.Logger
	profiles []*sources.Profile

	// newFetcher creates the shared rendering engine for one run. It is
	// a field so tests can substitute a stub engine.
	newFetcher func() (fetcher.PageFetcher, error)
	sitemap    SitemapSource
}

// NewAggregator wires an Aggregator over the real browser fetcher, the
// plain HTTP sitemap walker, and the default source set.
func NewAggregator(cfg *config.Config, logger *slog.Logger) *Aggregator {
	httpClient := fetcher.NewHTTPClient(&cfg.HTTP, logger)
	return &Aggregator{
		cfg:      cfg,
		logger:   logger.With("component", "aggregator"),
		profiles: sources.Defaults(),
		newFetcher: func() (fetcher.PageFetcher, error) {
			return fetcher.NewBrowserFetcher(&cfg.Browser, logger)
		},
		sitemap: sitemap.NewWalker(httpClient, logger),
	}
}

// Search is the blocking entry point.
func (a *Aggregator) Search(days, limitPerSource int, targetDate *time.Time) []types.Article {
	return a.SearchContext(context.Background(), days, limitPerSource, targetDate)
}

// SearchContext runs all sources sequentially within one browser session
// and returns the merged, deduplicated article list. It never returns an
// error: failures degrade to partial or empty results. The browser is
// released on every exit path.
func (a *Aggregator) SearchContext(ctx context.Context, days, limitPerSource int, targetDate *time.Time) []types.Article {
	f, err := a.newFetcher()
	if err != nil {
		a.logger.Error("rendering engine unavailable", "error", err)
		return nil
	}
	defer func() {
		if err := f.Close(); err != nil {
			a.logger.Warn("fetch engine close failed", "error", err)
		}
	}()

	pipe := NewPipeline(f, a.sitemap, &a.cfg.Scan, a.logger)

	var all []types.Article
	for _, src := range a.profiles {
		all = append(all, pipe.FetchSite(ctx, src, days, limitPerSource, targetDate)...)
	}

	merged := dedupArticles(all)
	a.logger.Info("scan complete", "sources", len(a.profiles), "articles", len(merged))
	return merged
}

// dedupArticles drops repeated (title, url) pairs, first occurrence wins.
func dedupArticles(articles []types.Article) []types.Article {
	type key struct{ title, url string }
	seen := make(map[key]struct{}, len(articles))
	out := articles[:0:0]
	for _, it := range articles {
		k := key{it.Title, it.URL}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
