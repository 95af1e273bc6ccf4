package testsupport

import (
	"path/filepath"
	"testing"

	"encore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "tracks")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Format = "json"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithWorkers overrides the export worker pool size on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Export.Workers = workers
	}
}

// WithThreshold pins the silence threshold on the test config.
func WithThreshold(db float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Segmentation.SilenceThresholdDB = db
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
