package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/colmyee/mediawire/internal/config"
	"github.com/colmyee/mediawire/internal/scan"
	"github.com/colmyee/mediawire/internal/storage"
)

var (
	cfgFile string
	verbose bool

	scanDays      int
	scanLimit     int
	scanYesterday bool
	scanShow      bool
	scanOutput    string
	scanFormat    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediawire",
		Short: "Focused news-article discovery for AI media sites",
		Long: `mediawire discovers and extracts recent articles from a small set of
media sites, normalizing each into a structured record (title, URL,
publish date, abstract).`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scanCmd creates the "scan" subcommand.
func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan all configured sources and report discovered articles",
		RunE:  runScan,
	}

	cmd.Flags().IntVar(&scanDays, "days", 7, "recency window in days (0 = no filtering)")
	cmd.Flags().IntVar(&scanLimit, "limit", 10, "max articles kept per source")
	cmd.Flags().BoolVar(&scanYesterday, "yesterday", false, "keep only articles published yesterday")
	cmd.Flags().BoolVar(&scanShow, "show", false, "show the browser window (debugging)")
	cmd.Flags().StringVarP(&scanOutput, "output", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVarP(&scanFormat, "format", "f", "", "output format: json, jsonl, mongodb, none")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := setupLogger(&cfg.Logging)

	applyScanOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var targetDate *time.Time
	if scanYesterday {
		y := time.Now().AddDate(0, 0, -1)
		y = time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, y.Location())
		targetDate = &y
	}

	logger.Info("starting scan",
		"days", cfg.Scan.Days,
		"limit_per_source", cfg.Scan.LimitPerSource,
		"yesterday_only", scanYesterday,
		"headless", cfg.Browser.Headless,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	agg := scan.NewAggregator(cfg, logger)
	articles := agg.SearchContext(ctx, cfg.Scan.Days, cfg.Scan.LimitPerSource, targetDate)

	fmt.Printf("\nScan complete in %s: %d articles\n", time.Since(start).Round(time.Millisecond), len(articles))
	for i, a := range articles {
		date := a.PubDate
		if date == "" {
			date = "N/A"
		}
		fmt.Printf("%02d. [%s] %s [%s]\n", i+1, a.Source, a.Title, date)
		fmt.Printf("    %s\n", a.URL)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if store != nil {
		if err := store.Store(articles); err != nil {
			logger.Error("storage failed", "backend", store.Name(), "error", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("storage close failed", "backend", store.Name(), "error", err)
		}
	}

	return nil
}

// applyScanOverrides layers scan flags onto the loaded config. Days and
// limit apply only when the flag was passed, so a config file's values
// survive a plain `mediawire scan`.
func applyScanOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("days") {
		cfg.Scan.Days = scanDays
	}
	if cmd.Flags().Changed("limit") {
		cfg.Scan.LimitPerSource = scanLimit
	}
	if scanShow {
		cfg.Browser.Headless = false
	}
	if scanOutput != "" {
		cfg.Storage.OutputPath = scanOutput
		if cfg.Storage.Type == "none" && scanFormat == "" {
			cfg.Storage.Type = "json"
		}
	}
	if scanFormat != "" {
		cfg.Storage.Type = scanFormat
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Browser:\n")
			fmt.Printf("  Headless:        %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:         %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Page Timeout:    %s\n", cfg.Browser.PageTimeout)
			fmt.Printf("  Settle Delay:    %s\n", cfg.Browser.SettleDelay)
			fmt.Printf("\nHTTP:\n")
			fmt.Printf("  Timeout:         %s\n", cfg.HTTP.Timeout)
			fmt.Printf("  User-Agent:      %s\n", cfg.HTTP.UserAgent)
			fmt.Printf("\nScan:\n")
			fmt.Printf("  Days:            %d\n", cfg.Scan.Days)
			fmt.Printf("  Limit/Source:    %d\n", cfg.Scan.LimitPerSource)
			fmt.Printf("  Sitemap Max:     %d\n", cfg.Scan.SitemapMaxURLs)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:            %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:     %s\n", cfg.Storage.OutputPath)
			return nil
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mediawire %s\n", config.Version)
		},
	}
}

// setupLogger creates a structured logger from the logging config; the
// --verbose flag forces debug level.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
