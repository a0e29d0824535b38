package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for mediawire.
type Config struct {
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	HTTP    HTTPConfig    `mapstructure:"http"    yaml:"http"`
	Scan    ScanConfig    `mapstructure:"scan"    yaml:"scan"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// BrowserConfig controls the rendering engine used for entry and detail
// pages.
type BrowserConfig struct {
	Headless    bool          `mapstructure:"headless"     yaml:"headless"`
	Stealth     bool          `mapstructure:"stealth"      yaml:"stealth"`
	PageTimeout time.Duration `mapstructure:"page_timeout" yaml:"page_timeout"`
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	UserAgent   string        `mapstructure:"user_agent"   yaml:"user_agent"`
}

// HTTPConfig controls the plain HTTP client used for robots.txt and
// sitemap files only.
type HTTPConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"    yaml:"user_agent"`
	MaxBodySize int64         `mapstructure:"max_body_size" yaml:"max_body_size"`
}

// ScanConfig controls the per-source discovery pipeline.
type ScanConfig struct {
	Days           int `mapstructure:"days"             yaml:"days"`
	LimitPerSource int `mapstructure:"limit_per_source" yaml:"limit_per_source"`

	// MinCandidates is the structured-extraction threshold below which
	// the raw-markup fallback scraper kicks in.
	MinCandidates int `mapstructure:"min_candidates" yaml:"min_candidates"`

	// ProbeFloor bounds detail-page fetches to max(limit, ProbeFloor).
	ProbeFloor int `mapstructure:"probe_floor" yaml:"probe_floor"`

	// SitemapMaxURLs caps how many leaf URLs a sitemap walk may return.
	SitemapMaxURLs int `mapstructure:"sitemap_max_urls" yaml:"sitemap_max_urls"`
}

// StorageConfig controls output of the final article list.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"` // json, jsonl, mongodb, none
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`

	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:    true,
			Stealth:     false,
			PageTimeout: 30 * time.Second,
			SettleDelay: 5 * time.Second,
			UserAgent:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		HTTP: HTTPConfig{
			Timeout:     12 * time.Second,
			UserAgent:   "Mozilla/5.0",
			MaxBodySize: 10 * 1024 * 1024, // 10MB
		},
		Scan: ScanConfig{
			Days:           7,
			LimitPerSource: 10,
			MinCandidates:  5,
			ProbeFloor:     10,
			SitemapMaxURLs: 500,
		},
		Storage: StorageConfig{
			Type:            "none",
			OutputPath:      "./output",
			MongoDatabase:   "mediawire",
			MongoCollection: "articles",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
