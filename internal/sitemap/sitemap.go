// Package sitemap discovers article URLs via robots.txt and recursive
// sitemap traversal, used as a last-resort candidate source when entry
// pages yield nothing.
package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/xml"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Getter fetches one URL and returns its body.
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Walker traverses sitemap trees breadth-first.
type Walker struct {
	client Getter
	logger *slog.Logger
}

// NewWalker creates a Walker over the given HTTP capability.
func NewWalker(client Getter, logger *slog.Logger) *Walker {
	return &Walker{
		client: client,
		logger: logger.With("component", "sitemap_walker"),
	}
}

// Conventional sitemap locations tried when robots.txt lists none.
var conventionalPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap-index.xml"}

// RootsFromRobots fetches base/robots.txt and returns every sitemap
// target it lists. On fetch failure, or when no sitemap lines are found,
// it falls back to the conventional paths resolved against base.
func (w *Walker) RootsFromRobots(ctx context.Context, base string) []string {
	var roots []string

	body, err := w.client.Get(ctx, joinURL(base, "/robots.txt"))
	if err != nil {
		w.logger.Debug("robots fetch failed", "base", base, "error", err)
	} else {
		for _, line := range strings.Split(string(body), "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(strings.ToLower(line), "sitemap:") {
				continue
			}
			if target := strings.TrimSpace(line[len("sitemap:"):]); target != "" {
				roots = append(roots, target)
			}
		}
	}

	if len(roots) == 0 {
		for _, p := range conventionalPaths {
			roots = append(roots, joinURL(base, p))
		}
	}
	return roots
}

// entry mirrors the sitemap schema: <sitemap><loc> nests further index
// files, <url><loc> is a leaf page. Local-name matching keeps this
// working with or without the sitemap namespace declaration.
type entry struct {
	Sitemaps []loc `xml:"sitemap"`
	URLs     []loc `xml:"url"`
}

type loc struct {
	Loc string `xml:"loc"`
}

// Walk traverses the sitemap tree rooted at rootURL breadth-first,
// expanding nested index files, and returns up to maxURLs leaf URLs.
// Every per-URL failure (fetch, decompression, malformed XML) is logged
// and skipped; the walk itself never fails.
func (w *Walker) Walk(ctx context.Context, rootURL string, maxURLs int) []string {
	var out []string
	queue := []string{rootURL}
	seen := make(map[string]struct{})

	for len(queue) > 0 && len(out) < maxURLs {
		u := queue[0]
		queue = queue[1:]
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}

		raw, err := w.client.Get(ctx, u)
		if err != nil {
			w.logger.Debug("sitemap fetch failed", "url", u, "error", err)
			continue
		}

		if strings.HasSuffix(strings.ToLower(u), ".gz") || bytes.HasPrefix(raw, gzipMagic) {
			raw, err = gunzip(raw)
			if err != nil {
				w.logger.Debug("sitemap gunzip failed", "url", u, "error", err)
				continue
			}
		}

		// Replace invalid UTF-8 rather than letting the XML decoder abort:
		// one bad byte must not discard a whole sitemap of valid URLs.
		text := strings.ToValidUTF8(string(raw), "\uFFFD")
		text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
		if !strings.HasPrefix(text, "<") {
			w.logger.Debug("sitemap is not XML", "url", u, "head", head(text, 80))
			continue
		}

		var doc entry
		dec := xml.NewDecoder(strings.NewReader(text))
		dec.CharsetReader = charset.NewReaderLabel
		if err := dec.Decode(&doc); err != nil {
			w.logger.Debug("sitemap parse failed", "url", u, "error", err)
			continue
		}

		for _, sm := range doc.Sitemaps {
			if target := strings.TrimSpace(sm.Loc); target != "" {
				queue = append(queue, target)
			}
		}
		for _, leaf := range doc.URLs {
			if target := strings.TrimSpace(leaf.Loc); target != "" {
				out = append(out, target)
				if len(out) >= maxURLs {
					break
				}
			}
		}
	}

	return out
}

func gunzip(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func head(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// joinURL resolves a path against a base URL.
func joinURL(base, path string) string {
	b, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + path
	}
	r, err := url.Parse(path)
	if err != nil {
		return strings.TrimRight(base, "/") + path
	}
	return b.ResolveReference(r).String()
}
