package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsConsistent(t *testing.T) {
	cfg := Default()
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		t.Fatalf("default canvas dimensions invalid: %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Spine.LeftGuideX >= cfg.Spine.RightGuideX {
		t.Errorf("guide lines out of order: left=%d right=%d", cfg.Spine.LeftGuideX, cfg.Spine.RightGuideX)
	}
	if cfg.Tint.BrightLow >= cfg.Tint.BrightHigh {
		t.Errorf("tint brightness interval empty: (%v, %v)", cfg.Tint.BrightLow, cfg.Tint.BrightHigh)
	}
	if cfg.Thresholds.DarkRatio <= 0 || cfg.Thresholds.DarkRatio >= 1 {
		t.Errorf("dark ratio out of range: %v", cfg.Thresholds.DarkRatio)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "canvas:\n  width: 100\n  height: 80\nworkers: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.Width != 100 || cfg.Canvas.Height != 80 {
		t.Errorf("canvas = %dx%d, want 100x80", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Workers)
	}
	// Keys the file does not mention keep their defaults.
	if cfg.Thresholds.DarkRow != Default().Thresholds.DarkRow {
		t.Errorf("unmentioned key changed: dark_row = %v", cfg.Thresholds.DarkRow)
	}
	// The default canvas margin survives a partial canvas section.
	if cfg.Canvas.Margin != Default().Canvas.Margin {
		t.Errorf("margin = %d, want default %d", cfg.Canvas.Margin, Default().Canvas.Margin)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
