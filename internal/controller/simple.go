package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "autotest.dev/pkg/autotest/internal/model"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayEstimation prints the static line counts or error.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, report m.CoverageReport, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderEstimationTable(report))

	return nil
}

// DisplayRunInfo shows the parameters of a starting run.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, runID string, modules []string, threshold float64, maxIterations int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Run %s: %d module(s), threshold %.0f%%, at most %d iteration(s)\n", runID, len(modules), threshold, maxIterations)
}

// DisplayStateChange prints terminal states only; intermediate phases are too chatty for plain output.
func (s *SimpleUI) DisplayStateChange(ctx context.Context, iteration int, state m.State) {
	if err := ctx.Err(); err != nil {
		return
	}

	if state.Terminal() {
		s.printf("Run %s after %d iteration(s)\n", state, iteration)
	}
}

// DisplayIteration prints one line per iteration plus its rejections.
func (s *SimpleUI) DisplayIteration(ctx context.Context, record m.IterationRecord) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", formatIteration(record))

	for _, line := range iterationDetails(record) {
		s.printf("  %s\n", line)
	}
}

// DisplayReport prints the final report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReport(report))

	return nil
}

// DisplayArtifactHistory prints the diffs between successive test files of a module.
func (s *SimpleUI) DisplayArtifactHistory(ctx context.Context, module string, diffs []string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\nHistory of %s (%d revision(s)):\n", m.TestFileName(module), len(diffs))

	for _, diff := range diffs {
		s.printf("%s\n", diff)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func formatIteration(record m.IterationRecord) string {
	return fmt.Sprintf("Iteration %d: coverage %.2f%% -> %.2f%%, %s (%s)",
		record.Index, record.CoverageBefore, record.CoverageAfter, record.Decision, record.Execution.Status)
}

func iterationDetails(record m.IterationRecord) []string {
	var lines []string

	for _, module := range sortedKeys(record.SynthesisFailures) {
		lines = append(lines, fmt.Sprintf("no test for %s: %s", module, record.SynthesisFailures[module]))
	}

	for _, module := range sortedKeys(record.Rejected) {
		lines = append(lines, fmt.Sprintf("rejected %s: %s", m.TestFileName(module), record.Rejected[module]))
	}

	return lines
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func renderEstimationTable(report m.CoverageReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Module", "Executable lines", "Note"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	names := make([]string, 0, len(report.PerModule))
	for name := range report.PerModule {
		names = append(names, name)
	}

	sort.Strings(names)

	total := 0

	for _, name := range names {
		mod := report.PerModule[name]
		total += mod.ExecutableLines
		table.Append([]string{name, fmt.Sprintf("%d", mod.ExecutableLines), mod.FlagReason})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Modules %d", len(names)),
		fmt.Sprintf("%d", total),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

func renderReport(report m.Report) string {
	var b strings.Builder

	outcome := "abandoned"
	if report.Success {
		outcome = "accepted"
	}

	fmt.Fprintf(&b, "Run %s %s\n", report.RunID, outcome)
	fmt.Fprintf(&b, "Coverage: %.2f%% after %d iteration(s)\n", report.CoveragePct, report.Iteration)
	fmt.Fprintf(&b, "Reason: %s\n", report.ReviewReason)
	fmt.Fprintf(&b, "Tests: %d passed, %d failed\n", report.TestsPassed, report.TestsFailed)

	for _, failed := range report.FailedTests {
		fmt.Fprintf(&b, "  FAIL %s\n", failed)
	}

	if len(report.UncoveredLines) == 0 && len(report.FlaggedModules) == 0 {
		return b.String()
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Module", "Uncovered lines"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	names := make([]string, 0, len(report.UncoveredLines))
	for name := range report.UncoveredLines {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		cell := formatLines(report.UncoveredLines[name])
		if reason, ok := report.FlaggedModules[name]; ok {
			cell += " (" + reason + ")"
		}

		table.Append([]string{name, cell})
	}

	table.Render()
	b.WriteString("\n")
	b.WriteString(tableBuffer.String())

	return b.String()
}

func formatLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = fmt.Sprintf("%d", line)
	}

	return strings.Join(parts, ", ")
}
