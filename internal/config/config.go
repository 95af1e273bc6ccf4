package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"encore/internal/segment"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Segmentation contains the boundary detection tuning knobs.
type Segmentation struct {
	WindowMS           int64   `toml:"window_ms"`
	MinSilenceLenMS    int64   `toml:"min_silence_len_ms"`
	KeepSilenceMS      int64   `toml:"keep_silence_ms"`
	MergeAdjacentGapMS int64   `toml:"merge_adjacent_gap_ms"`
	TargetSongMinMS    int64   `toml:"target_song_min_ms"`
	TargetSongMaxMS    int64   `toml:"target_song_max_ms"`
	MinFragmentMS      int64   `toml:"min_fragment_ms"`
	BottomPercentile   float64 `toml:"bottom_percentile"`
	HeadroomDB         float64 `toml:"headroom_db"`
	// SilenceThresholdDB pins the silence threshold instead of estimating it
	// from the recording. Zero means estimate automatically.
	SilenceThresholdDB float64 `toml:"silence_threshold_db"`
}

// Export contains track extraction and output settings.
type Export struct {
	HeadMS     int64 `toml:"head_ms"`
	TailMS     int64 `toml:"tail_ms"`
	FadeMS     int64 `toml:"fade_ms"`
	StartIndex int   `toml:"start_index"`
	Workers    int   `toml:"workers"`
	BitDepth   int   `toml:"bit_depth"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Encore.
//
// Configuration sections by subsystem:
//   - Paths: output and log directories
//   - Segmentation: loudness windowing and span detection tuning
//   - Export: track padding, fades, numbering, and worker pool size
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Segmentation Segmentation `toml:"segmentation"`
	Export       Export       `toml:"export"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/encore/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/encore/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("encore.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories runs write into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SegmentationParams converts the configured tuning into engine parameters.
func (c *Config) SegmentationParams() segment.Params {
	return segment.Params{
		MinSilenceLenMS:    c.Segmentation.MinSilenceLenMS,
		KeepSilenceMS:      c.Segmentation.KeepSilenceMS,
		MergeAdjacentGapMS: c.Segmentation.MergeAdjacentGapMS,
		TargetSongMinMS:    c.Segmentation.TargetSongMinMS,
		TargetSongMaxMS:    c.Segmentation.TargetSongMaxMS,
		MinFragmentMS:      c.Segmentation.MinFragmentMS,
		BottomPercentile:   c.Segmentation.BottomPercentile,
		HeadroomDB:         c.Segmentation.HeadroomDB,
	}
}

// ExportOptions converts the configured export settings into engine options.
func (c *Config) ExportOptions() segment.ExportOptions {
	return segment.ExportOptions{
		HeadMS:     c.Export.HeadMS,
		TailMS:     c.Export.TailMS,
		FadeMS:     c.Export.FadeMS,
		StartIndex: c.Export.StartIndex,
		Workers:    c.Export.Workers,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
