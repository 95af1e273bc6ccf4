package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	if c.Segmentation.WindowMS <= 0 {
		return errors.New("segmentation.window_ms must be positive")
	}
	if err := c.SegmentationParams().Validate(); err != nil {
		return fmt.Errorf("segmentation: %w", err)
	}
	if c.Segmentation.SilenceThresholdDB > 0 {
		return errors.New("segmentation.silence_threshold_db must be negative dBFS (or 0 for automatic estimation)")
	}
	return nil
}

func (c *Config) validateExport() error {
	if err := c.ExportOptions().Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	switch c.Export.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("export.bit_depth must be 16, 24, or 32, got %d", c.Export.BitDepth)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
