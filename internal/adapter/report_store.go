package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	m "autotest.dev/pkg/autotest/internal/model"
	"autotest.dev/pkg/autotest/pkg"
)

const (
	reportFileName  = "report.json"
	journalFileName = "iterations.gob"
	testsDirName    = "tests"
)

// ReportStore persists the outcome of a CLI run into an output directory:
// the JSON report, the accepted test files and a journal of iterations.
type ReportStore interface {
	SaveReport(ctx context.Context, dir m.Path, report m.Report, suite m.TestSuite) error
	LoadReport(ctx context.Context, dir m.Path) (m.Report, error)
	OpenJournal(ctx context.Context, dir m.Path) (pkg.FileSpill[m.IterationRecord], error)
	LoadJournal(ctx context.Context, dir m.Path) ([]m.IterationRecord, error)
}

type reportStore struct{}

// NewReportStore constructs the filesystem-backed ReportStore.
func NewReportStore() ReportStore {
	return &reportStore{}
}

// SaveReport writes report.json plus one file per active artifact under tests/.
func (s *reportStore) SaveReport(ctx context.Context, dir m.Path, report m.Report, suite m.TestSuite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	testsDir := filepath.Join(string(dir), testsDirName)
	if err := os.MkdirAll(testsDir, 0o750); err != nil {
		slog.Error("Failed to create reports directory", "dir", testsDir, "error", err)
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		slog.Error("Failed to encode report", "run", report.RunID, "error", err)
		return fmt.Errorf("failed to encode report: %w", err)
	}

	reportPath := filepath.Join(string(dir), reportFileName)
	if err := os.WriteFile(reportPath, append(data, '\n'), 0o600); err != nil {
		slog.Error("Failed to write report", "path", reportPath, "error", err)
		return fmt.Errorf("failed to write report: %w", err)
	}

	for _, artifact := range suite.Active() {
		path := filepath.Join(testsDir, artifact.FileName())
		if err := os.WriteFile(path, []byte(artifact.SourceCode), 0o600); err != nil {
			slog.Error("Failed to write test file", "path", path, "error", err)
			return fmt.Errorf("failed to write test file %s: %w", artifact.FileName(), err)
		}
	}

	slog.Info("Saved report", "dir", dir, "tests", len(suite.Active()))

	return nil
}

// LoadReport reads report.json back from dir.
func (s *reportStore) LoadReport(ctx context.Context, dir m.Path) (m.Report, error) {
	if err := ctx.Err(); err != nil {
		return m.Report{}, err
	}

	path := filepath.Join(string(dir), reportFileName)

	// #nosec G304 - reports directory is chosen by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read report", "path", path, "error", err)
		return m.Report{}, fmt.Errorf("failed to read report: %w", err)
	}

	var report m.Report
	if err := json.Unmarshal(data, &report); err != nil {
		slog.Error("Failed to decode report", "path", path, "error", err)
		return m.Report{}, fmt.Errorf("failed to decode report: %w", err)
	}

	return report, nil
}

// OpenJournal creates a fresh iteration journal in dir.
func (s *reportStore) OpenJournal(ctx context.Context, dir m.Path) (pkg.FileSpill[m.IterationRecord], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return pkg.CreateFileSpill[m.IterationRecord](filepath.Join(string(dir), journalFileName))
}

// LoadJournal reads every iteration record stored in dir.
func (s *reportStore) LoadJournal(ctx context.Context, dir m.Path) ([]m.IterationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return pkg.ReadFileSpill[m.IterationRecord](filepath.Join(string(dir), journalFileName))
}
