package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"encore/internal/config"
	"encore/internal/segment"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, ".local", "share", "encore", "tracks")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "encore", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Segmentation.WindowMS != segment.DefaultWindowMS {
		t.Fatalf("unexpected window: %d", cfg.Segmentation.WindowMS)
	}
	if cfg.Segmentation.SilenceThresholdDB != 0 {
		t.Fatalf("expected automatic threshold by default, got %g", cfg.Segmentation.SilenceThresholdDB)
	}
	if cfg.Export.BitDepth != 16 {
		t.Fatalf("unexpected bit depth: %d", cfg.Export.BitDepth)
	}
	if cfg.Export.StartIndex != 1 {
		t.Fatalf("unexpected start index: %d", cfg.Export.StartIndex)
	}
	if cfg.Logging.Format != "auto" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadReadsFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.Join(dir, "tracks") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[segmentation]
min_silence_len_ms = 1500
silence_threshold_db = -42.5

[export]
head_ms = 500
workers = 4
bit_depth = 24

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path %q, got %q (exists=%v)", path, resolved, exists)
	}

	if cfg.Segmentation.MinSilenceLenMS != 1500 {
		t.Fatalf("unexpected min silence: %d", cfg.Segmentation.MinSilenceLenMS)
	}
	if cfg.Segmentation.SilenceThresholdDB != -42.5 {
		t.Fatalf("unexpected threshold: %g", cfg.Segmentation.SilenceThresholdDB)
	}
	// Unset fields keep defaults.
	if cfg.Segmentation.KeepSilenceMS != segment.DefaultKeepSilenceMS {
		t.Fatalf("unexpected keep silence: %d", cfg.Segmentation.KeepSilenceMS)
	}
	if cfg.Export.HeadMS != 500 || cfg.Export.TailMS != segment.DefaultTailMS {
		t.Fatalf("unexpected padding: head=%d tail=%d", cfg.Export.HeadMS, cfg.Export.TailMS)
	}
	if cfg.Export.Workers != 4 || cfg.Export.BitDepth != 24 {
		t.Fatalf("unexpected export settings: %+v", cfg.Export)
	}

	params := cfg.SegmentationParams()
	if params.MinSilenceLenMS != 1500 {
		t.Fatalf("params did not carry override: %d", params.MinSilenceLenMS)
	}
	opts := cfg.ExportOptions()
	if opts.HeadMS != 500 || opts.Workers != 4 {
		t.Fatalf("options did not carry overrides: %+v", opts)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		fragment string
	}{
		{
			name:     "positive threshold",
			content:  "[segmentation]\nsilence_threshold_db = 3.0\n",
			fragment: "silence_threshold_db",
		},
		{
			name:     "zero window",
			content:  "[segmentation]\nwindow_ms = 0\n",
			fragment: "window_ms",
		},
		{
			name:     "inverted song bounds",
			content:  "[segmentation]\ntarget_song_min_ms = 700000\n",
			fragment: "target_song_min_ms",
		},
		{
			name:     "bad bit depth",
			content:  "[export]\nbit_depth = 20\n",
			fragment: "bit_depth",
		},
		{
			name:     "bad log format",
			content:  "[logging]\nformat = \"yaml\"\n",
			fragment: "logging.format",
		},
		{
			name:     "bad log level",
			content:  "[logging]\nlevel = \"trace\"\n",
			fragment: "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected %q in error, got %v", tc.fragment, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	defaults := config.Default()
	if cfg.Segmentation.MinSilenceLenMS != defaults.Segmentation.MinSilenceLenMS {
		t.Fatalf("sample drifted from defaults: %d", cfg.Segmentation.MinSilenceLenMS)
	}
	if cfg.Export.FadeMS != defaults.Export.FadeMS {
		t.Fatalf("sample drifted from defaults: %d", cfg.Export.FadeMS)
	}
}

func TestExpandPathResolvesTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	expanded, err := config.ExpandPath("~/recordings")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if expanded != filepath.Join(tempHome, "recordings") {
		t.Fatalf("unexpected expansion: %q", expanded)
	}
}
