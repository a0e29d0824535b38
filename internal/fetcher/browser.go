package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/colmyee/mediawire/internal/config"
)

// BrowserFetcher implements PageFetcher using a headless browser via Rod.
// One BrowserFetcher holds one browser for the lifetime of an aggregation
// run; every page fetch goes through the same session.
type BrowserFetcher struct {
	browser *rod.Browser
	cfg     *config.BrowserConfig
	logger  *slog.Logger
}

// NewBrowserFetcher launches a browser and connects to it.
func NewBrowserFetcher(cfg *config.BrowserConfig, logger *slog.Logger) (*BrowserFetcher, error) {
	bf := &BrowserFetcher{
		cfg:    cfg,
		logger: logger.With("component", "browser_fetcher"),
	}

	launchURL, err := bf.launchBrowser()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	bf.browser = browser

	bf.logger.Info("browser fetcher ready",
		"headless", cfg.Headless,
		"stealth", cfg.Stealth,
	)
	return bf, nil
}

// launchBrowser starts a Chromium instance with appropriate flags.
func (bf *BrowserFetcher) launchBrowser() (string, error) {
	l := launcher.New().
		Headless(bf.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")
	return l.Launch()
}

// FetchPage renders a URL and returns its content, readable text,
// internal links, and metadata title. Navigation and render failures are
// reported in the result, not as an error.
func (bf *BrowserFetcher) FetchPage(ctx context.Context, req PageRequest) (*PageResult, error) {
	start := time.Now()

	page, err := bf.newPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx)

	if ua := bf.cfg.UserAgent; ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	if req.BypassCache {
		if err := (proto.NetworkSetCacheDisabled{CacheDisabled: true}).Call(page); err != nil {
			bf.logger.Warn("failed to disable cache", "url", req.URL, "error", err)
		}
	}

	if err := page.Timeout(bf.cfg.PageTimeout).Navigate(req.URL); err != nil {
		return &PageResult{Success: false, ErrorMessage: err.Error()}, nil
	}
	if err := page.Timeout(bf.cfg.PageTimeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", req.URL, "error", err)
	}

	if req.JSCode != "" {
		if _, err := page.Eval(req.JSCode); err != nil {
			bf.logger.Warn("js eval error", "url", req.URL, "error", err)
		}
		delay := bf.cfg.SettleDelay
		if req.SettleDelay > 0 {
			delay = time.Duration(req.SettleDelay) * time.Second
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return &PageResult{Success: false, ErrorMessage: ctx.Err().Error()}, nil
			case <-time.After(delay):
			}
		}
	}

	html, err := page.HTML()
	if err != nil {
		return &PageResult{Success: false, ErrorMessage: err.Error()}, nil
	}

	info, err := page.Info()
	finalURL := req.URL
	if err == nil && info != nil && info.URL != "" {
		finalURL = info.URL
	}

	result := buildResult(html, finalURL)

	bf.logger.Debug("browser fetch complete",
		"url", req.URL,
		"final_url", finalURL,
		"links", len(result.Links),
		"size", len(html),
		"duration", time.Since(start),
	)
	return result, nil
}

// newPage creates a fresh page, stealth-patched when configured.
func (bf *BrowserFetcher) newPage() (*rod.Page, error) {
	if bf.cfg.Stealth {
		return stealth.Page(bf.browser)
	}
	return bf.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// buildResult extracts title, readable text, and internal links from
// rendered markup.
func buildResult(html, pageURL string) *PageResult {
	result := &PageResult{Success: true, HTML: html}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Rendered but unparseable markup: keep the raw HTML so the
		// fallback scraper can still mine it.
		return result
	}

	result.Title = strings.TrimSpace(doc.Find("title").First().Text())
	result.Text = readableText(doc)
	result.Links = internalLinks(doc, pageURL)
	return result
}

// readableText strips boilerplate elements and collapses the body text.
func readableText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, nav, footer, header, aside, .sidebar, .menu, .nav").Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}

// internalLinks collects same-host <a href> links with their anchor text.
func internalLinks(doc *goquery.Document, pageURL string) []Link {
	host := hostOf(pageURL)
	if host == "" {
		return nil
	}

	var links []Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "data:") {
			return
		}
		// Relative links are internal by construction; absolute ones
		// must share the page's host.
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			if hostOf(href) != host {
				return
			}
		}
		links = append(links, Link{Href: href, Text: sel.Text()})
	})
	return links
}

// hostOf returns the www-stripped lowercase hostname of a URL.
func hostOf(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimPrefix(strings.ToLower(rest), "www.")
}
