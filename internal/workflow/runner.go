package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"reunite/internal/config"
	"reunite/internal/executor"
	"reunite/internal/logging"
	"reunite/internal/names"
	"reunite/internal/reconcile"
	"reunite/internal/report"
	"reunite/internal/services"
	"reunite/internal/sidecar"
	"reunite/internal/tuning"
)

// ErrAlreadyRunning indicates another reconciliation run holds the lock.
var ErrAlreadyRunning = errors.New("another reunite run is active")

// Options controls a single run.
type Options struct {
	DryRun     bool
	Embed      bool
	Backup     bool
	Workers    int
	PreAnalyze bool
}

// Summary aggregates the outcome of a run.
type Summary struct {
	RunID    string
	Root     string
	DryRun   bool
	Totals   report.Totals
	Duration time.Duration
}

// Runner executes reconciliation runs. The store and tool may be nil; run
// history and embedding are then skipped.
type Runner struct {
	cfg    *config.Config
	store  *report.Store
	tool   executor.MetadataTool
	logger *slog.Logger
}

// New builds a runner.
func New(cfg *config.Config, store *report.Store, tool executor.MetadataTool, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, store: store, tool: tool, logger: logger}
}

// Run reconciles every directory under root. Decisions are identical with
// and without DryRun; only filesystem effects differ.
func (r *Runner) Run(ctx context.Context, root string, opts Options) (*Summary, error) {
	lock := flock.New(r.cfg.LockFilePath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	started := time.Now()
	params := r.resolveParameters(root, opts)

	dirs, err := collectDirectories(root)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Root: root, DryRun: opts.DryRun}
	if r.store != nil {
		run, err := r.store.BeginRun(ctx, root, opts.DryRun)
		if err != nil {
			return nil, err
		}
		summary.RunID = run.ID
		ctx = services.WithRunID(ctx, run.ID)
	}

	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		slog.String("root", root),
		slog.Int("directories", len(dirs)),
		slog.Bool("dry_run", opts.DryRun),
		slog.Bool("embed", opts.Embed))

	exec := executor.New(executor.Options{
		DryRun: opts.DryRun,
		Embed:  opts.Embed,
		Backup: opts.Backup,
	}, r.tool, logging.NewComponentLogger(logger, "executor"))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(dirs) && len(dirs) > 0 {
		workers = len(dirs)
	}

	var (
		totals report.Totals
		mu     sync.Mutex
		wg     sync.WaitGroup
	)
	jobs := make(chan string)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for dir := range jobs {
				dirTotals := r.processDirectory(ctx, dir, params, exec)
				mu.Lock()
				addTotals(&totals, dirTotals)
				mu.Unlock()
			}
		}()
	}

	for _, dir := range dirs {
		select {
		case jobs <- dir:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	totals.Directories = int64(len(dirs))
	summary.Totals = totals
	summary.Duration = time.Since(started)

	if r.store != nil && summary.RunID != "" {
		if err := r.store.FinishRun(ctx, summary.RunID, totals); err != nil {
			return nil, err
		}
	}

	logger.Info("run complete",
		slog.Int64("media_files", totals.MediaFiles),
		slog.Int64("matched", totals.Matched),
		slog.Int64("unmatched", totals.Unmatched),
		slog.Int64("conflicts", totals.Conflicts),
		slog.Int64("renamed", totals.Renamed),
		slog.Int64("errors", totals.Errors),
		slog.Duration("elapsed", summary.Duration))

	return summary, nil
}

// resolveParameters picks matcher tuning for the run: pre-analysis of the
// actual tree when enabled, otherwise defaults adjusted by config.
func (r *Runner) resolveParameters(root string, opts Options) tuning.Parameters {
	params := tuning.Defaults()
	params.AverageNameLength = float64(r.cfg.Tuning.AverageNameLength)
	params.MinPrefixFactor = r.cfg.Tuning.MinPrefixFactor
	params.TruncationStepDivisor = r.cfg.Tuning.TruncationStepDivisor

	if !opts.PreAnalyze {
		return params
	}
	analysis, err := tuning.Analyze(root)
	if err != nil {
		r.logger.Warn("pre-analysis failed, using configured tuning", logging.Error(err))
		return params
	}
	r.logger.Info("pre-analysis complete",
		slog.Int("sidecars", analysis.Sidecars),
		slog.Float64("avg_name_length", analysis.AverageNameLength),
		slog.Int("suffix_variants", len(analysis.Parameters.SuffixVariants)))
	return analysis.Parameters
}

func (r *Runner) processDirectory(ctx context.Context, dir string, params tuning.Parameters, exec *executor.Executor) report.Totals {
	var totals report.Totals

	dirCtx := services.WithDirectory(ctx, dir)
	logger := logging.WithContext(dirCtx, r.logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("skipping unreadable directory", logging.Error(err))
		totals.Errors++
		return totals
	}

	var mediaNames, sidecarNames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case names.IsMedia(name):
			mediaNames = append(mediaNames, name)
		case names.IsSidecar(name):
			sidecarNames = append(sidecarNames, name)
		}
	}
	if len(mediaNames) == 0 {
		return totals
	}
	totals.MediaFiles = int64(len(mediaNames))

	titles := sidecar.LoadTitles(dir, sidecarNames, logger)
	session := reconcile.NewSession(dir, mediaNames, sidecarNames, titles, params,
		logging.NewComponentLogger(logger, "session"))

	for _, result := range session.Run() {
		outcome := report.Outcome{
			MediaPath: result.Media.Path,
			Kind:      result.Kind.String(),
		}
		switch result.Kind {
		case reconcile.OutcomeMatched:
			totals.Matched++
			outcome.SidecarPath = result.Resolution.CanonicalPath
			applied := exec.Apply(dirCtx, result.Resolution)
			outcome.Renamed = applied.Renamed
			outcome.Embedded = applied.Embedded
			outcome.Verified = applied.Verified
			if applied.Renamed {
				totals.Renamed++
			}
			if applied.Embedded {
				totals.Embedded++
			}
			if applied.Verified {
				totals.Verified++
			}
			if applied.Err != nil {
				totals.Errors++
				outcome.Error = applied.Err.Error()
			}
		case reconcile.OutcomeNoMatch:
			totals.Unmatched++
		case reconcile.OutcomeConflict:
			totals.Conflicts++
			outcome.SidecarPath = result.SidecarPath
		}
		r.recordOutcome(dirCtx, logger, outcome)
	}

	return totals
}

func (r *Runner) recordOutcome(ctx context.Context, logger *slog.Logger, outcome report.Outcome) {
	if r.store == nil {
		return
	}
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		return
	}
	if err := r.store.RecordOutcome(ctx, runID, outcome); err != nil {
		logger.Warn("failed to record outcome", logging.Error(err))
	}
}

func addTotals(dst *report.Totals, src report.Totals) {
	dst.MediaFiles += src.MediaFiles
	dst.Matched += src.Matched
	dst.Unmatched += src.Unmatched
	dst.Conflicts += src.Conflicts
	dst.Renamed += src.Renamed
	dst.Embedded += src.Embedded
	dst.Verified += src.Verified
	dst.Errors += src.Errors
}

// collectDirectories returns root and every subdirectory beneath it, sorted
// for deterministic scheduling.
func collectDirectories(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}
