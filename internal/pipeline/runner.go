package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"encore/internal/config"
	"encore/internal/logging"
	"encore/internal/services"
	"encore/internal/store"
)

// Options adjusts a single run without touching the persisted configuration.
type Options struct {
	// SourcePath is the recording to segment. Required.
	SourcePath string
	// Title overrides the title derived from the source filename.
	Title string
	// ThresholdDB pins the silence threshold in dBFS. Zero keeps the
	// configured behavior.
	ThresholdDB float64
	// StartIndex overrides the configured first track number when positive.
	StartIndex int
}

// Result summarizes a completed run.
type Result struct {
	Run    *store.Run
	Tracks []Track
}

// Runner drives segmentation runs through their stages and persists
// transitions in the run store.
type Runner struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewRunner constructs a Runner. A nil logger disables logging.
func NewRunner(cfg *config.Config, st *store.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, store: st, logger: logging.NewComponentLogger(logger, "pipeline")}
}

// Run segments a recording end to end: analyze, then export.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	source, err := config.ExpandPath(strings.TrimSpace(opts.SourcePath))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "", "run", "resolve source path", err)
	}
	if source == "" {
		return nil, services.Wrap(services.ErrValidation, "", "run", "source path is required", nil)
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "run", "prepare directories", err)
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.OutputDir, ".encore.lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "", "run", "acquire output lock", err)
	}
	if !held {
		return nil, services.Wrap(services.ErrTransient, "", "run", fmt.Sprintf("output directory %s is in use by another run", r.cfg.Paths.OutputDir), nil)
	}
	defer func() { _ = lock.Unlock() }()

	correlationID := uuid.NewString()
	run, err := r.store.NewRun(ctx, source, strings.TrimSpace(opts.Title), correlationID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "", "run", "create run record", err)
	}

	runCtx := services.WithRunID(ctx, run.ID)
	runCtx = services.WithCorrelationID(runCtx, correlationID)
	runLogger := logging.WithContext(runCtx, r.logger)

	runLogger.Info(
		"run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("source_file", source),
	)

	sess := &session{}
	analyze := newAnalyzer(r.cfg, sess, opts.ThresholdDB)
	if err := r.runStage(runCtx, run, stageAnalyze, analyze, store.StatusAnalyzing, store.StatusAnalyzed); err != nil {
		return nil, err
	}

	export := newExporter(r.cfg, sess, opts.StartIndex)
	if err := r.runStage(runCtx, run, stageExport, export, store.StatusExporting, store.StatusCompleted); err != nil {
		return nil, err
	}

	runLogger.Info(
		"run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("track_count", run.TrackCount),
		logging.String("output_dir", run.OutputDir),
	)
	return &Result{Run: run, Tracks: export.tracks}, nil
}

// Plan performs the analysis stage in memory and reports the would-be tracks.
// Nothing is persisted and no files are written.
func (r *Runner) Plan(ctx context.Context, opts Options) (*store.Run, []Track, error) {
	source, err := config.ExpandPath(strings.TrimSpace(opts.SourcePath))
	if err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "", "plan", "resolve source path", err)
	}

	run := &store.Run{SourcePath: source, Title: strings.TrimSpace(opts.Title), Status: store.StatusPending}
	sess := &session{}
	analyze := newAnalyzer(r.cfg, sess, opts.ThresholdDB)

	planCtx := services.WithStage(ctx, "planning")
	analyze.SetLogger(logging.WithContext(planCtx, r.logger))
	if err := analyze.Prepare(planCtx, run); err != nil {
		return nil, nil, err
	}
	if err := analyze.Execute(planCtx, run); err != nil {
		return nil, nil, err
	}

	export := newExporter(r.cfg, sess, opts.StartIndex)
	export.SetLogger(logging.WithContext(planCtx, r.logger))
	if err := export.Prepare(planCtx, run); err != nil {
		return nil, nil, err
	}

	tracks := make([]Track, 0, len(sess.slices))
	for _, slice := range sess.slices {
		tracks = append(tracks, Track{
			Index:   slice.Index,
			StartMS: slice.StartMS,
			EndMS:   slice.EndMS,
		})
	}
	run.Status = store.StatusAnalyzed
	return run, tracks, nil
}

// runStage executes a stage and applies run transition semantics.
func (r *Runner) runStage(ctx context.Context, run *store.Run, name string, handler Handler, processing, done store.Status) error {
	stageCtx := services.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, r.logger)
	if aware, ok := handler.(LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(processing)),
	)

	run.Status = processing
	run.ErrorMessage = ""
	if err := r.store.Update(stageCtx, run); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	if err := handler.Prepare(stageCtx, run); err != nil {
		return r.failStage(stageCtx, stageLogger, run, err)
	}
	if err := r.store.Update(stageCtx, run); err != nil {
		return fmt.Errorf("persist stage preparation: %w", err)
	}

	if err := handler.Execute(stageCtx, run); err != nil {
		return r.failStage(stageCtx, stageLogger, run, err)
	}

	if run.Status == processing || run.Status == "" {
		run.Status = done
	}
	if err := r.store.Update(stageCtx, run); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(run.Status)),
	)
	return nil
}

func (r *Runner) failStage(ctx context.Context, logger *slog.Logger, run *store.Run, stageErr error) error {
	message := strings.TrimSpace(stageErr.Error())
	status := services.FailureStatus(stageErr)
	if status == store.StatusReview {
		run.SetReview(message)
	} else {
		run.SetFailed(message)
	}

	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("resolved_status", string(status)),
		logging.Error(stageErr),
	)
	if err := r.store.Update(ctx, run); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}
	return stageErr
}
