package evaluation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"segstats/internal/aggregate"
	"segstats/internal/anima"
	"segstats/internal/cohort"
	"segstats/internal/config"
	"segstats/internal/logging"
	"segstats/internal/mask"
	"segstats/internal/nifti"
	"segstats/internal/report"
	"segstats/internal/results"
	"segstats/internal/segperf"
)

// StatsDirName is the folder inside the prediction folder that receives the
// analyzer reports and the run log.
const StatsDirName = "anima_stats"

const lockFileName = "run.lock"

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor injects a custom command executor for the analyzer
// (primarily for tests).
func WithExecutor(exec segperf.Executor) Option {
	return func(r *Runner) {
		r.exec = exec
	}
}

// WithStore records runs and their values in the given history store.
func WithStore(store *results.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithConsole redirects the per-metric summary lines, which default to stdout.
func WithConsole(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.console = w
		}
	}
}

// Runner orchestrates one evaluation: pair masks, binarize, invoke the
// analyzer per subject, then aggregate the XML reports.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *results.Store
	exec    segperf.Executor
	console io.Writer
}

// New constructs a runner. A nil logger disables logging.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("evaluation runner requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := &Runner{
		cfg:     cfg,
		logger:  logging.WithComponent(logger, "evaluation"),
		console: os.Stdout,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Outcome reports one completed evaluation run.
type Outcome struct {
	RunID      string
	Dataset    string
	PredFolder string
	StatsDir   string
	LogPath    string
	Scored     int
	Skipped    []string
	PredVoxels int
	RefVoxels  int
	Summaries  []aggregate.Summary
}

// Run scores every subject under predFolder and aggregates the results.
// The prediction folder must contain *_pred.nii.gz and *_gt.nii.gz mask
// pairs; reports land in its anima_stats subdirectory. When the folder holds
// no mask pairs but anima_stats already has reports, aggregation runs over
// those instead.
func (r *Runner) Run(ctx context.Context, predFolder, dataset string) (*Outcome, error) {
	dataset = NormalizeDataset(dataset)
	if !ValidDataset(dataset) {
		return nil, fmt.Errorf("unknown dataset %q (expected one of: %s)", dataset, strings.Join(Datasets(), ", "))
	}

	predFolder, err := config.ExpandPath(predFolder)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(predFolder)
	if err != nil {
		return nil, fmt.Errorf("prediction folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("prediction folder %s is not a directory", predFolder)
	}

	analyzer, err := r.newAnalyzer()
	if err != nil {
		return nil, err
	}
	version, err := analyzer.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyzer preflight: %w", err)
	}
	r.logger.Info("analyzer ready", "version", firstLine(version))

	statsDir := filepath.Join(predFolder, StatsDirName)
	if err := os.MkdirAll(statsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create stats directory: %w", err)
	}

	lock := flock.New(filepath.Join(statsDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another evaluation is already running for %s", predFolder)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	pairs, err := cohort.Discover(predFolder)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		RunID:      uuid.NewString(),
		Dataset:    dataset,
		PredFolder: predFolder,
		StatsDir:   statsDir,
		LogPath:    filepath.Join(statsDir, "log_"+dataset+".txt"),
	}
	r.logger.Info("evaluation started",
		"run_id", outcome.RunID,
		"dataset", dataset,
		"pred_folder", predFolder,
		"subjects", len(pairs))

	if r.store != nil {
		if err := r.store.BeginRun(ctx, outcome.RunID, dataset, predFolder); err != nil {
			return nil, err
		}
	}

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.scoreSubject(ctx, analyzer, statsDir, pair, outcome); err != nil {
			return nil, fmt.Errorf("subject %s: %w", pair.Subject, err)
		}
	}

	reportPaths, err := report.Collect(statsDir)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 && len(reportPaths) == 0 {
		return nil, fmt.Errorf("no mask pairs under %s and no existing reports in %s", predFolder, statsDir)
	}

	table := aggregate.NewTable()
	for _, path := range reportPaths {
		parsed, err := report.ParseFile(path)
		if err != nil {
			return nil, err
		}
		if parsed.EmptyGroundTruth() {
			r.logger.Warn("skipping subject with empty ground truth", "subject", parsed.Subject)
			outcome.Skipped = append(outcome.Skipped, parsed.Subject)
			continue
		}
		outcome.Scored++
		for _, entry := range parsed.Entries {
			if math.IsInf(entry.Value, 0) || math.IsNaN(entry.Value) {
				r.logger.Warn("dropping non-finite metric value",
					"subject", parsed.Subject,
					"metric", entry.Name,
					"value", entry.Value)
				continue
			}
			if err := table.Append(entry.Name, entry.Value); err != nil {
				return nil, err
			}
			if r.store != nil {
				if err := r.store.AddMeasurement(ctx, outcome.RunID, parsed.Subject, entry.Name, entry.Value); err != nil {
					return nil, err
				}
			}
		}
	}

	outcome.Summaries = table.Summaries()

	fmt.Fprintln(r.console, aggregate.Header)
	for _, summary := range outcome.Summaries {
		fmt.Fprintln(r.console, summary.ConsoleLine())
	}

	if err := appendRunLog(outcome.LogPath, outcome.Summaries); err != nil {
		return nil, err
	}

	if r.store != nil {
		if err := r.store.CompleteRun(ctx, outcome.RunID, outcome.Scored, len(outcome.Skipped)); err != nil {
			return nil, err
		}
	}

	r.logger.Info("evaluation finished",
		"run_id", outcome.RunID,
		"scored", outcome.Scored,
		"skipped", len(outcome.Skipped),
		"metrics", len(outcome.Summaries))
	return outcome, nil
}

func (r *Runner) newAnalyzer() (*segperf.Analyzer, error) {
	binary, err := anima.ResolveBinary(r.cfg.Anima.BinariesDir, r.cfg.Anima.ConfigPath, r.cfg.AnalyzerBinary())
	if err != nil {
		return nil, err
	}
	opts := []segperf.Option{
		segperf.WithTimeout(time.Duration(r.cfg.Anima.EvalTimeout) * time.Second),
	}
	if r.exec != nil {
		opts = append(opts, segperf.WithExecutor(r.exec))
	}
	return segperf.New(binary, opts...)
}

// scoreSubject binarizes one subject's masks and invokes the analyzer on the
// temporary binarized copies. The copies live next to the originals and are
// removed afterwards unless keep_binarized is set.
func (r *Runner) scoreSubject(ctx context.Context, analyzer *segperf.Analyzer, statsDir string, pair cohort.Pair, outcome *Outcome) error {
	pred, err := nifti.Load(pair.PredictionPath)
	if err != nil {
		return fmt.Errorf("load prediction: %w", err)
	}
	ref, err := nifti.Load(pair.ReferencePath)
	if err != nil {
		return fmt.Errorf("load ground truth: %w", err)
	}

	predBin := mask.Binarize(pred)
	refBin := mask.Binarize(ref)
	outcome.PredVoxels += mask.Foreground(predBin)
	outcome.RefVoxels += mask.Foreground(refBin)

	predBinPath := filepath.Join(filepath.Dir(pair.PredictionPath), pair.Subject+"_pred_bin.nii.gz")
	refBinPath := filepath.Join(filepath.Dir(pair.ReferencePath), pair.Subject+"_gt_bin.nii.gz")

	if err := nifti.Save(predBinPath, predBin); err != nil {
		return fmt.Errorf("write binarized prediction: %w", err)
	}
	if !r.cfg.Metrics.KeepBinarized {
		defer r.removeTemp(predBinPath)
	}
	if err := nifti.Save(refBinPath, refBin); err != nil {
		return fmt.Errorf("write binarized ground truth: %w", err)
	}
	if !r.cfg.Metrics.KeepBinarized {
		defer r.removeTemp(refBinPath)
	}

	r.logger.Info("scoring subject",
		"subject", pair.Subject,
		"pred_voxels", mask.Foreground(predBin),
		"gt_voxels", mask.Foreground(refBin))

	return analyzer.Evaluate(ctx, segperf.Request{
		PredictionPath: predBinPath,
		ReferencePath:  refBinPath,
		OutputPrefix:   filepath.Join(statsDir, pair.Subject),
	})
}

func (r *Runner) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("failed to remove binarized mask", "path", path, logging.Error(err))
	}
}

// appendRunLog appends the banner and per-metric lines so successive runs on
// the same folder accumulate in one file.
func appendRunLog(path string, summaries []aggregate.Summary) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer file.Close()

	var b strings.Builder
	b.WriteString(aggregate.Header)
	b.WriteByte('\n')
	for _, summary := range summaries {
		b.WriteString(summary.LogLine())
		b.WriteByte('\n')
	}
	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("write run log: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
