package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	m "autotest.dev/pkg/autotest/internal/model"
)

func TestReportStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	dir := m.Path(filepath.Join(t.TempDir(), "out"))
	store := NewReportStore()

	suite := m.NewTestSuite(
		m.TestArtifact{ModuleName: "calc.go", SourceCode: "package calc // v1\n", OriginIteration: 1},
		m.TestArtifact{ModuleName: "calc.go", SourceCode: "package calc // v2\n", OriginIteration: 2},
	)

	report := m.Report{
		CoveragePct:    87.5,
		Iteration:      2,
		ReviewReason:   "threshold reached at iteration 2 (coverage 87.50% >= 80%)",
		UncoveredLines: map[string][]int{"calc.go": {12}},
		TestsCode:      suite.Code(),
		Success:        true,
		RunID:          "run-1",
		Iterations: []m.IterationRecord{
			{Index: 1, Decision: m.Continue, Execution: m.ExecutionResult{Status: m.PartialFailure}},
			{Index: 2, Decision: m.Accept, Execution: m.ExecutionResult{Status: m.Passed}},
		},
	}

	if err := store.SaveReport(ctx, dir, report, suite); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	testFile, err := os.ReadFile(filepath.Join(string(dir), "tests", "calc_test.go"))
	if err != nil {
		t.Fatalf("test file not written: %v", err)
	}

	if string(testFile) != "package calc // v2\n" {
		t.Fatalf("test file = %q, want the active artifact", testFile)
	}

	loaded, err := store.LoadReport(ctx, dir)
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}

	if loaded.CoveragePct != report.CoveragePct || loaded.ReviewReason != report.ReviewReason {
		t.Fatalf("LoadReport() = %+v", loaded)
	}

	if len(loaded.Iterations) != 2 || loaded.Iterations[1].Decision != m.Accept || loaded.Iterations[0].Execution.Status != m.PartialFailure {
		t.Fatalf("LoadReport() iterations = %+v", loaded.Iterations)
	}
}

func TestReportStore_LoadReport_Missing(t *testing.T) {
	if _, err := NewReportStore().LoadReport(context.Background(), m.Path(t.TempDir())); err == nil {
		t.Fatalf("LoadReport() expected error for missing report")
	}
}

func TestReportStore_Journal(t *testing.T) {
	ctx := context.Background()
	dir := m.Path(t.TempDir())
	store := NewReportStore()

	journal, err := store.OpenJournal(ctx, dir)
	if err != nil {
		t.Fatalf("OpenJournal() error = %v", err)
	}

	record := m.IterationRecord{
		Index:         1,
		CoverageAfter: 50,
		Decision:      m.Continue,
		Execution: m.ExecutionResult{
			Status: m.PartialFailure,
			Tests: map[string]m.TestCaseResult{
				"calc/TestDivide": {Package: "calc", Name: "TestDivide", Outcome: m.OutcomeFail},
			},
		},
		Artifacts: []m.TestArtifact{{ModuleName: "calc.go", SourceCode: "package calc\n", OriginIteration: 1}},
	}

	if err := journal.Append(record); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if err := journal.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	records, err := store.LoadJournal(ctx, dir)
	if err != nil {
		t.Fatalf("LoadJournal() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("LoadJournal() returned %d records", len(records))
	}

	got := records[0]
	if got.Decision != m.Continue || len(got.Artifacts) != 1 || got.Execution.Tests["calc/TestDivide"].Outcome != m.OutcomeFail {
		t.Fatalf("LoadJournal() record = %+v", got)
	}
}
