package main

import (
	"testing"

	"github.com/colmyee/mediawire/internal/config"
)

func resetScanFlags() {
	scanDays = 7
	scanLimit = 10
	scanYesterday = false
	scanShow = false
	scanOutput = ""
	scanFormat = ""
}

func TestApplyScanOverrides(t *testing.T) {
	t.Run("config values survive without flags", func(t *testing.T) {
		resetScanFlags()
		cmd := scanCmd()
		if err := cmd.Flags().Parse(nil); err != nil {
			t.Fatal(err)
		}

		cfg := config.DefaultConfig()
		cfg.Scan.Days = 14
		cfg.Scan.LimitPerSource = 3
		applyScanOverrides(cmd, cfg)

		if cfg.Scan.Days != 14 {
			t.Errorf("Days = %d, flag default overrode the config file", cfg.Scan.Days)
		}
		if cfg.Scan.LimitPerSource != 3 {
			t.Errorf("LimitPerSource = %d, flag default overrode the config file", cfg.Scan.LimitPerSource)
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		resetScanFlags()
		cmd := scanCmd()
		if err := cmd.Flags().Parse([]string{"--days", "2", "--limit", "5"}); err != nil {
			t.Fatal(err)
		}

		cfg := config.DefaultConfig()
		cfg.Scan.Days = 14
		cfg.Scan.LimitPerSource = 3
		applyScanOverrides(cmd, cfg)

		if cfg.Scan.Days != 2 {
			t.Errorf("Days = %d, want 2", cfg.Scan.Days)
		}
		if cfg.Scan.LimitPerSource != 5 {
			t.Errorf("LimitPerSource = %d, want 5", cfg.Scan.LimitPerSource)
		}
	})

	t.Run("output path upgrades storage type", func(t *testing.T) {
		resetScanFlags()
		cmd := scanCmd()
		if err := cmd.Flags().Parse([]string{"--output", "/tmp/out"}); err != nil {
			t.Fatal(err)
		}

		cfg := config.DefaultConfig()
		applyScanOverrides(cmd, cfg)

		if cfg.Storage.Type != "json" || cfg.Storage.OutputPath != "/tmp/out" {
			t.Errorf("storage = %q at %q", cfg.Storage.Type, cfg.Storage.OutputPath)
		}
	})

	t.Run("explicit format is kept", func(t *testing.T) {
		resetScanFlags()
		cmd := scanCmd()
		if err := cmd.Flags().Parse([]string{"--output", "/tmp/out", "--format", "jsonl"}); err != nil {
			t.Fatal(err)
		}

		cfg := config.DefaultConfig()
		applyScanOverrides(cmd, cfg)

		if cfg.Storage.Type != "jsonl" {
			t.Errorf("Type = %q, want jsonl", cfg.Storage.Type)
		}
	})
}
