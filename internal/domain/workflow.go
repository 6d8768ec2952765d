package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"autotest.dev/pkg/autotest/internal/adapter"
	"autotest.dev/pkg/autotest/internal/controller"
	m "autotest.dev/pkg/autotest/internal/model"
	"autotest.dev/pkg/autotest/pkg"
)

// EstimateArgs selects the source files for a run or an estimate.
type EstimateArgs struct {
	Paths   []m.Path
	Exclude []string
}

// RunArgs contains the arguments for a local pipeline run.
type RunArgs struct {
	EstimateArgs
	Output        m.Path
	Threshold     int
	MaxIterations int
}

// ViewArgs locates a saved run.
type ViewArgs struct {
	Output m.Path
}

// Workflow is the CLI entry point into the pipeline.
type Workflow interface {
	Estimate(ctx context.Context, args EstimateArgs) error
	Run(ctx context.Context, args RunArgs) (m.Report, error)
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.ReportStore
	adapter.SourceFSAdapter
	controller.UI

	analyzer Analyzer
	pipeline Pipeline
	intake   *Intake
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	analyzer Analyzer,
	pipeline Pipeline,
	intake *Intake,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		analyzer:        analyzer,
		pipeline:        pipeline,
		intake:          intake,
	}
}

// Estimate shows the executable line count of every selected module without running anything.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	files, err := w.readFiles(ctx, args)
	if err != nil {
		w.Close(ctx)
		return err
	}

	modules := make([]m.SourceModule, len(files))
	for i, file := range files {
		modules[i] = m.SourceModule{Name: file.Name, Content: file.Content}
	}

	sources, err := m.NewSourceSet(modules...)
	if err != nil {
		w.Close(ctx)
		slog.Error("Failed to build source set", "error", err)

		return fmt.Errorf("source set: %w", err)
	}

	report, err := w.analyzer.Estimate(ctx, sources)
	if displayErr := w.DisplayEstimation(ctx, report, err); displayErr != nil {
		w.Close(ctx)
		slog.Error("Failed to display estimation", "error", displayErr)

		return fmt.Errorf("display: %w", displayErr)
	}

	// Wait for UI to be closed by user (press 'q')
	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

// Run drives the pipeline over local files and saves the outcome into args.Output.
func (w *workflow) Run(ctx context.Context, args RunArgs) (m.Report, error) {
	if err := w.Start(ctx, controller.WithRunMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.Report{}, err
	}
	defer w.Close(ctx)

	files, err := w.readFiles(ctx, args.EstimateArgs)
	if err != nil {
		return m.Report{}, err
	}

	sources, cfg, err := w.intake.Validate(RunRequest{
		Files:         files,
		Threshold:     args.Threshold,
		MaxIterations: args.MaxIterations,
	})
	if err != nil {
		slog.Error("Run request rejected", "error", err)
		return m.Report{}, err
	}

	if err := w.MkdirAll(ctx, args.Output); err != nil {
		slog.Error("Failed to create output directory", "dir", args.Output, "error", err)
		return m.Report{}, fmt.Errorf("create output directory: %w", err)
	}

	journal, err := w.OpenJournal(ctx, args.Output)
	if err != nil {
		slog.Error("Failed to open iteration journal", "dir", args.Output, "error", err)
		return m.Report{}, fmt.Errorf("open journal: %w", err)
	}

	defer func() {
		if closeErr := journal.Close(); closeErr != nil {
			slog.Warn("Failed to close iteration journal", "path", journal.Path(), "error", closeErr)
		}
	}()

	result, err := w.pipeline.Run(ctx, sources, cfg, w.UI, journalObserver{journal: journal})
	if err != nil {
		return m.Report{}, fmt.Errorf("run pipeline: %w", err)
	}

	if err := w.SaveReport(ctx, args.Output, result.Report, result.Suite); err != nil {
		return result.Report, fmt.Errorf("save report: %w", err)
	}

	if err := w.DisplayReport(ctx, result.Report); err != nil {
		slog.Error("Failed to display report", "error", err)
		return result.Report, fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return result.Report, nil
}

// View re-displays a saved report and the revisions each test file went through.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	report, err := w.LoadReport(ctx, args.Output)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.DisplayReport(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	records, err := w.LoadJournal(ctx, args.Output)

	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Info("No iteration journal found", "dir", args.Output)
	case err != nil:
		return fmt.Errorf("load journal: %w", err)
	default:
		history := ArtifactHistory(records)

		modules := make([]string, 0, len(history))
		for module := range history {
			modules = append(modules, module)
		}

		sort.Strings(modules)

		for _, module := range modules {
			w.DisplayArtifactHistory(ctx, module, history[module])
		}
	}

	w.Wait(ctx)

	return nil
}

// readFiles expands the selected paths and loads each file under its base name.
func (w *workflow) readFiles(ctx context.Context, args EstimateArgs) ([]UploadedFile, error) {
	paths, err := w.CollectGoFiles(ctx, args.Paths, args.Exclude...)
	if err != nil {
		slog.Error("Failed to collect source files", "error", err)
		return nil, fmt.Errorf("collect sources: %w", err)
	}

	files := make([]UploadedFile, 0, len(paths))

	for _, path := range paths {
		content, err := w.ReadFile(ctx, path)
		if err != nil {
			slog.Error("Failed to read source file", "path", path, "error", err)
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		files = append(files, UploadedFile{Name: filepath.Base(string(path)), Content: content})
	}

	return files, nil
}

// ArtifactHistory returns, per module with more than one revision, unified
// diffs between consecutive test files in generation order.
func ArtifactHistory(records []m.IterationRecord) map[string][]string {
	var suite m.TestSuite

	for _, record := range records {
		suite.Append(record.Artifacts...)
	}

	history := make(map[string][]string)

	for _, active := range suite.Active() {
		versions := append(suite.Superseded(active.ModuleName), active)
		if len(versions) < 2 {
			continue
		}

		for i := 1; i < len(versions); i++ {
			prev, next := versions[i-1], versions[i]

			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(prev.SourceCode),
				B:        difflib.SplitLines(next.SourceCode),
				FromFile: fmt.Sprintf("%s@%d", prev.FileName(), prev.OriginIteration),
				ToFile:   fmt.Sprintf("%s@%d", next.FileName(), next.OriginIteration),
				Context:  3,
			})
			if err != nil {
				slog.Warn("Failed to diff test revisions", "module", active.ModuleName, "error", err)
				continue
			}

			history[active.ModuleName] = append(history[active.ModuleName], diff)
		}
	}

	return history
}

// journalObserver appends every completed iteration to the on-disk journal.
type journalObserver struct {
	journal pkg.FileSpill[m.IterationRecord]
}

func (j journalObserver) DisplayRunInfo(context.Context, string, []string, float64, int) {}

func (j journalObserver) DisplayStateChange(context.Context, int, m.State) {}

func (j journalObserver) DisplayIteration(_ context.Context, record m.IterationRecord) {
	if err := j.journal.Append(record); err != nil {
		slog.Warn("Failed to journal iteration", "index", record.Index, "error", err)
	}
}
