package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"encore/internal/config"
	"encore/internal/logging"
	"encore/internal/media/wavio"
	"encore/internal/segment"
	"encore/internal/services"
	"encore/internal/store"
)

const stageAnalyze = "analyzing"

// analyzer loads the source recording, estimates the silence threshold, and
// detects song spans.
type analyzer struct {
	cfg     *config.Config
	session *session
	logger  *slog.Logger

	// thresholdDB pins the silence threshold for this run. Zero keeps the
	// configured behavior (explicit config value or automatic estimation).
	thresholdDB float64
}

func newAnalyzer(cfg *config.Config, sess *session, thresholdDB float64) *analyzer {
	return &analyzer{
		cfg:         cfg,
		session:     sess,
		logger:      logging.NewNop(),
		thresholdDB: thresholdDB,
	}
}

func (a *analyzer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Prepare reads and decodes the source recording.
func (a *analyzer) Prepare(ctx context.Context, run *store.Run) error {
	source := strings.TrimSpace(run.SourcePath)
	if source == "" {
		return services.Wrap(services.ErrValidation, stageAnalyze, "prepare", "source path is empty", nil)
	}
	info, err := os.Stat(source)
	if err != nil {
		return services.Wrap(services.ErrNotFound, stageAnalyze, "prepare", fmt.Sprintf("source recording %s", source), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, stageAnalyze, "prepare", fmt.Sprintf("source %s is a directory", source), nil)
	}

	recording, err := wavio.ReadFile(source)
	if err != nil {
		return services.Wrap(services.ErrValidation, stageAnalyze, "prepare", "decode source recording", err)
	}
	a.session.recording = recording

	if strings.TrimSpace(run.Title) == "" {
		run.Title = DeriveTitle(source)
	}
	run.DurationMS = recording.Stream.DurationMS()

	a.logger.Info(
		"recording loaded",
		logging.String(logging.FieldEventType, "recording_loaded"),
		logging.String("source_file", source),
		logging.Int64("duration_ms", run.DurationMS),
		logging.Int("sample_rate", recording.Stream.SampleRate),
		logging.Int("channels", recording.Stream.Channels),
		logging.Int("bit_depth", recording.BitDepth),
	)
	return nil
}

// Execute profiles the recording and persists the detected spans on the run.
func (a *analyzer) Execute(ctx context.Context, run *store.Run) error {
	stream := a.session.stream()
	if stream == nil {
		return services.Wrap(services.ErrTransient, stageAnalyze, "execute", "recording not loaded", nil)
	}
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTimeout, stageAnalyze, "execute", "analysis interrupted", err)
	}

	profile, err := segment.Profile(stream, int(a.cfg.Segmentation.WindowMS))
	if err != nil {
		return services.Wrap(services.ErrValidation, stageAnalyze, "profile", "measure loudness", err)
	}

	threshold, auto, err := a.resolveThreshold(profile)
	if err != nil {
		return services.Wrap(services.ErrValidation, stageAnalyze, "threshold", "estimate silence threshold", err)
	}
	run.ThresholdDB = threshold
	run.ThresholdAuto = auto

	reason := fmt.Sprintf("pinned by configuration at %.1f dBFS", threshold)
	if auto {
		reason = fmt.Sprintf("noise floor percentile %.2f plus %.1f dB headroom", a.cfg.Segmentation.BottomPercentile, a.cfg.Segmentation.HeadroomDB)
	}
	a.logger.Info(
		"silence threshold resolved",
		logging.Args(logging.DecisionAttrs("silence_threshold", fmt.Sprintf("%.1f dBFS", threshold), reason)...)...,
	)

	spans, report, err := segment.DetectSpans(profile, threshold, a.cfg.SegmentationParams())
	if err != nil {
		return services.Wrap(services.ErrValidation, stageAnalyze, "detect", "detect song spans", err)
	}
	a.session.spans = spans
	a.session.report = report

	for _, dropped := range report.DroppedFragments {
		a.logger.Warn(
			"fragment dropped",
			logging.String(logging.FieldEventType, "fragment_dropped"),
			logging.Int64("start_ms", dropped.StartMS),
			logging.Int64("end_ms", dropped.EndMS),
			logging.Int64("duration_ms", dropped.DurationMS()),
		)
	}
	for _, oversize := range report.OversizeSpans {
		a.logger.Warn(
			"span exceeds target song length",
			logging.String(logging.FieldEventType, "span_oversize"),
			logging.Int64("start_ms", oversize.StartMS),
			logging.Int64("end_ms", oversize.EndMS),
			logging.Int64("duration_ms", oversize.DurationMS()),
			logging.Alert("check for missed separator"),
		)
	}

	if len(spans) == 0 {
		return services.Wrap(services.ErrValidation, stageAnalyze, "detect", "no songs detected; the recording may be silent or the threshold too low", nil)
	}

	spansJSON, err := json.Marshal(spans)
	if err != nil {
		return services.Wrap(services.ErrTransient, stageAnalyze, "persist", "marshal spans", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return services.Wrap(services.ErrTransient, stageAnalyze, "persist", "marshal report", err)
	}
	run.SpansJSON = string(spansJSON)
	run.ReportJSON = string(reportJSON)
	run.SpanCount = len(spans)

	a.logger.Info(
		"analysis complete",
		logging.String(logging.FieldEventType, "analysis_complete"),
		logging.Int("span_count", len(spans)),
		logging.Float64("threshold_db", threshold),
		logging.Bool("threshold_auto", auto),
	)
	return nil
}

func (a *analyzer) resolveThreshold(profile segment.LoudnessProfile) (float64, bool, error) {
	if a.thresholdDB < 0 {
		return a.thresholdDB, false, nil
	}
	if a.cfg.Segmentation.SilenceThresholdDB < 0 {
		return a.cfg.Segmentation.SilenceThresholdDB, false, nil
	}
	threshold, err := segment.EstimateThreshold(profile, a.cfg.Segmentation.BottomPercentile, a.cfg.Segmentation.HeadroomDB)
	if err != nil {
		return 0, false, err
	}
	return threshold, true, nil
}
