package config

import "encore/internal/segment"

const (
	defaultOutputDir = "~/.local/share/encore/tracks"
	defaultLogDir    = "~/.local/share/encore/logs"
	defaultLogFormat = "auto"
	defaultLogLevel  = "info"
	defaultBitDepth  = 16
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Segmentation: Segmentation{
			WindowMS:           segment.DefaultWindowMS,
			MinSilenceLenMS:    segment.DefaultMinSilenceLenMS,
			KeepSilenceMS:      segment.DefaultKeepSilenceMS,
			MergeAdjacentGapMS: segment.DefaultMergeAdjacentGapMS,
			TargetSongMinMS:    segment.DefaultTargetSongMinMS,
			TargetSongMaxMS:    segment.DefaultTargetSongMaxMS,
			MinFragmentMS:      segment.DefaultMinFragmentMS,
			BottomPercentile:   segment.DefaultBottomPercentile,
			HeadroomDB:         segment.DefaultHeadroomDB,
		},
		Export: Export{
			HeadMS:     segment.DefaultHeadMS,
			TailMS:     segment.DefaultTailMS,
			FadeMS:     segment.DefaultFadeMS,
			StartIndex: 1,
			BitDepth:   defaultBitDepth,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
