package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"encore/internal/config"
	"encore/internal/logging"
	"encore/internal/media/wavio"
	"encore/internal/segment"
	"encore/internal/services"
	"encore/internal/store"
	"encore/internal/textutil"
)

const stageExport = "exporting"

// Track describes one exported track file.
type Track struct {
	Index   int    `json:"index"`
	Path    string `json:"path"`
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
}

// exporter plans padded slices from the detected spans and writes one WAV
// file per track.
type exporter struct {
	cfg     *config.Config
	session *session
	logger  *slog.Logger

	startIndex int
	tracks     []Track
}

func newExporter(cfg *config.Config, sess *session, startIndex int) *exporter {
	return &exporter{
		cfg:        cfg,
		session:    sess,
		logger:     logging.NewNop(),
		startIndex: startIndex,
	}
}

func (e *exporter) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Prepare restores stage inputs and plans the export slices.
func (e *exporter) Prepare(ctx context.Context, run *store.Run) error {
	if e.session.recording == nil {
		recording, err := wavio.ReadFile(run.SourcePath)
		if err != nil {
			return services.Wrap(services.ErrValidation, stageExport, "prepare", "reload source recording", err)
		}
		e.session.recording = recording
	}
	if len(e.session.spans) == 0 {
		if strings.TrimSpace(run.SpansJSON) == "" {
			return services.Wrap(services.ErrValidation, stageExport, "prepare", "run has no detected spans", nil)
		}
		if err := json.Unmarshal([]byte(run.SpansJSON), &e.session.spans); err != nil {
			return services.Wrap(services.ErrValidation, stageExport, "prepare", "decode persisted spans", err)
		}
	}

	opts := e.cfg.ExportOptions()
	if e.startIndex > 0 {
		opts.StartIndex = e.startIndex
	}
	slices, report, err := segment.PlanSlices(e.session.stream().DurationMS(), e.session.spans, opts)
	if err != nil {
		return services.Wrap(services.ErrValidation, stageExport, "plan", "plan track slices", err)
	}
	e.session.slices = slices
	e.session.report.Merge(report)

	for _, skipped := range report.SkippedSlices {
		e.logger.Warn(
			"slice collapsed during planning",
			logging.String(logging.FieldEventType, "slice_skipped"),
			logging.Int64("start_ms", skipped.Span.StartMS),
			logging.Int64("end_ms", skipped.Span.EndMS),
		)
	}
	if len(slices) == 0 {
		return services.Wrap(services.ErrValidation, stageExport, "plan", "no exportable tracks after planning", nil)
	}
	return nil
}

// Execute extracts the planned slices and writes the track files.
func (e *exporter) Execute(ctx context.Context, run *store.Run) error {
	stream := e.session.stream()
	slices := e.session.slices

	trackDir := filepath.Join(e.cfg.Paths.OutputDir, textutil.SanitizeToken(run.Title))
	if err := os.MkdirAll(trackDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, stageExport, "execute", fmt.Sprintf("create track directory %s", trackDir), err)
	}

	extracted, err := segment.ExtractAll(ctx, stream, slices, e.cfg.Export.Workers)
	if err != nil {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrTimeout, stageExport, "extract", "extraction interrupted", err)
		}
		return services.Wrap(services.ErrTransient, stageExport, "extract", "extract track slices", err)
	}

	title := textutil.SanitizeFileName(run.Title)
	if title == "" {
		title = "Track"
	}
	tracks := make([]Track, 0, len(slices))
	for i, slice := range slices {
		name := fmt.Sprintf("%02d - %s.wav", slice.Index, title)
		path := filepath.Join(trackDir, name)
		if err := wavio.WriteFile(path, extracted[i], stream.SampleRate, stream.Channels, e.cfg.Export.BitDepth); err != nil {
			return services.Wrap(services.ErrTransient, stageExport, "write", fmt.Sprintf("write track %s", name), err)
		}
		tracks = append(tracks, Track{
			Index:   slice.Index,
			Path:    path,
			StartMS: slice.StartMS,
			EndMS:   slice.EndMS,
		})
		e.logger.Info(
			"track written",
			logging.String(logging.FieldEventType, "track_written"),
			logging.Int("track_index", slice.Index),
			logging.String("track_file", name),
			logging.String("range", textutil.FormatRangeMS(slice.StartMS, slice.EndMS)),
		)
	}
	e.tracks = tracks

	if err := e.writeManifest(trackDir, run, tracks); err != nil {
		return err
	}

	run.OutputDir = trackDir
	run.TrackCount = len(tracks)
	reportJSON, err := json.Marshal(e.session.report)
	if err != nil {
		return services.Wrap(services.ErrTransient, stageExport, "persist", "marshal report", err)
	}
	run.ReportJSON = string(reportJSON)

	e.logger.Info(
		"export complete",
		logging.String(logging.FieldEventType, "export_complete"),
		logging.Int("track_count", len(tracks)),
		logging.String("output_dir", trackDir),
	)
	return nil
}

// manifest is the per-run JSON inventory written next to the track files.
type manifest struct {
	Title       string         `json:"title"`
	SourcePath  string         `json:"source_path"`
	ThresholdDB float64        `json:"threshold_db"`
	DurationMS  int64          `json:"duration_ms"`
	Tracks      []Track        `json:"tracks"`
	Report      segment.Report `json:"report"`
}

func (e *exporter) writeManifest(trackDir string, run *store.Run, tracks []Track) error {
	m := manifest{
		Title:       run.Title,
		SourcePath:  run.SourcePath,
		ThresholdDB: run.ThresholdDB,
		DurationMS:  run.DurationMS,
		Tracks:      tracks,
		Report:      e.session.report,
	}
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrTransient, stageExport, "manifest", "marshal manifest", err)
	}
	path := filepath.Join(trackDir, "tracks.json")
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, stageExport, "manifest", "write manifest", err)
	}
	return nil
}
