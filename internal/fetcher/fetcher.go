package fetcher

import "context"

// Link is a single hyperlink discovered on a rendered page.
type Link struct {
	Href string
	Text string
}

// PageRequest describes one rendering-engine fetch.
type PageRequest struct {
	// URL is the page to render.
	URL string

	// BypassCache forces a fresh load, skipping any browser cache.
	BypassCache bool

	// JSCode is an optional script executed after load and before the
	// final HTML is captured (used to trigger lazy content).
	JSCode string

	// SettleDelay overrides the configured wait between script execution
	// and HTML capture. Zero means use the configured default.
	SettleDelay int // seconds
}

// PageResult is what the rendering engine hands back for one page.
type PageResult struct {
	Success      bool
	ErrorMessage string

	// HTML is the fully rendered markup.
	HTML string

	// Text is the cleaned readable body text.
	Text string

	// Links are the internal links discovered on the page.
	Links []Link

	// Title is the page metadata title.
	Title string
}

// PageFetcher renders pages and extracts their content. The pipeline
// treats it as an opaque capability; failures come back in the result,
// not as errors, except for engine-level faults.
type PageFetcher interface {
	FetchPage(ctx context.Context, req PageRequest) (*PageResult, error)
	Close() error
}
