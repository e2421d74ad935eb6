package main

import (
	"testing"

	"stitchsync/internal/config"
)

func TestResolveWatchSettingsFlagBeatsConfig(t *testing.T) {
	dir := t.TempDir()
	cfgDir := t.TempDir()

	cfg := config.Default()
	cfg.Watch.Dir = cfgDir
	cfg.Watch.Machine = "Brother PE800"
	cfg.Watch.OutputFormat = "pes"

	settings, err := resolveWatchSettings(&cfg, dir, "Janome MC9900", "JEF")
	if err != nil {
		t.Fatalf("resolveWatchSettings: %v", err)
	}
	if settings.WatchDir != dir {
		t.Fatalf("watch dir = %q, want flag value %q", settings.WatchDir, dir)
	}
	if settings.Machine != "Janome MC9900" {
		t.Fatalf("machine = %q, want flag value", settings.Machine)
	}
	if settings.OutputFormat != "jef" {
		t.Fatalf("output format = %q, want lowercased flag value", settings.OutputFormat)
	}
}

func TestResolveWatchSettingsFallsBackToConfig(t *testing.T) {
	cfgDir := t.TempDir()

	cfg := config.Default()
	cfg.Watch.Dir = cfgDir
	cfg.Watch.Machine = "Brother PE800"

	settings, err := resolveWatchSettings(&cfg, "", "", "")
	if err != nil {
		t.Fatalf("resolveWatchSettings: %v", err)
	}
	if settings.WatchDir != cfgDir {
		t.Fatalf("watch dir = %q, want config value %q", settings.WatchDir, cfgDir)
	}
	if settings.Machine != "Brother PE800" {
		t.Fatalf("machine = %q, want config value", settings.Machine)
	}
	if settings.OutputFormat != "" {
		t.Fatalf("output format = %q, want empty", settings.OutputFormat)
	}
}

func TestResolveWatchSettingsDefaultsToDownloads(t *testing.T) {
	cfg := config.Default()
	settings, err := resolveWatchSettings(&cfg, "", "", "")
	if err != nil {
		t.Skip("home directory unavailable")
	}
	if settings.WatchDir == "" {
		t.Fatal("expected a default watch directory")
	}
}
