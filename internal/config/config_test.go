package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MeasurementsPath != "../measurements.csv" {
		t.Fatalf("measurements_path = %q", c.MeasurementsPath)
	}
	if c.DistributionPath != "../distribution-kernel-1000.json" {
		t.Fatalf("distribution_path = %q", c.DistributionPath)
	}
	if len(c.ExcludeChunkers) != 1 || c.ExcludeChunkers[0] != Baseline {
		t.Fatalf("exclude_chunkers = %q", c.ExcludeChunkers)
	}
	if c.DistributionBarWidth != 1000 || c.DistributionMajorStep != 7500 || c.DistributionMinorStep != 1000 {
		t.Fatalf("unexpected distribution defaults: %+v", c)
	}
	if c.ChartWidthIn != 12 || c.ChartHeightIn != 6 {
		t.Fatalf("unexpected chart size %gx%g", c.ChartWidthIn, c.ChartHeightIn)
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CHUNKPLOT_MEASUREMENTS_PATH", "/data/m.csv")
	t.Setenv("CHUNKPLOT_DISTRIBUTION_BAR_WIDTH", "500")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MeasurementsPath != "/data/m.csv" {
		t.Fatalf("measurements_path = %q", c.MeasurementsPath)
	}
	if c.DistributionBarWidth != 500 {
		t.Fatalf("distribution_bar_width = %g", c.DistributionBarWidth)
	}
}

func TestSaveThenLoadFromExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c := Defaults()
	c.OutputDir = "charts"
	c.Viewer = "feh"
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.OutputDir != "charts" || got.Viewer != "feh" {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("distribution_bar_width: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}
