package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "autotest.dev/pkg/autotest/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	acceptedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	abandonedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// headerLines is the number of rows View renders above the viewport.
const headerLines = 4

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	input  io.Reader

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(input io.Reader, output io.Writer) *TUI {
	return &TUI{input: input, output: output}
}

// Start launches the Bubble Tea program in the background.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.program != nil {
		return nil
	}

	cfg := startConfig(options)

	p.program = tea.NewProgram(newProgressModel(cfg.mode),
		tea.WithContext(ctx),
		tea.WithInput(p.input),
		tea.WithOutput(p.output),
		tea.WithAltScreen(),
	)
	p.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("TUI program stopped", "error", err)
		}
	}(p.program, p.done)

	return nil
}

// Close stops the program and restores the terminal.
func (p *TUI) Close(_ context.Context) {
	p.mu.Lock()
	program, done := p.program, p.done
	p.program = nil
	p.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits the program.
func (p *TUI) Wait(ctx context.Context) {
	p.mu.Lock()
	program, done := p.program, p.done
	p.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(finishedMsg{})

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (p *TUI) send(msg tea.Msg) {
	p.mu.Lock()
	program := p.program
	p.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// DisplayEstimation shows the static line counts.
func (p *TUI) DisplayEstimation(ctx context.Context, report m.CoverageReport, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		p.send(contentMsg{text: abandonedStyle.Render(fmt.Sprintf("estimation error: %v", err))})
		return err
	}

	p.send(contentMsg{text: renderEstimationTable(report)})

	return nil
}

// DisplayRunInfo shows the parameters of a starting run.
func (p *TUI) DisplayRunInfo(ctx context.Context, runID string, modules []string, threshold float64, maxIterations int) {
	if ctx.Err() != nil {
		return
	}

	p.send(runInfoMsg{runID: runID, modules: len(modules), threshold: threshold, maxIterations: maxIterations})
}

// DisplayStateChange updates the status line.
func (p *TUI) DisplayStateChange(ctx context.Context, iteration int, state m.State) {
	if ctx.Err() != nil {
		return
	}

	p.send(stateMsg{iteration: iteration, state: state})
}

// DisplayIteration appends an iteration summary.
func (p *TUI) DisplayIteration(ctx context.Context, record m.IterationRecord) {
	if ctx.Err() != nil {
		return
	}

	lines := []string{formatIteration(record)}
	for _, detail := range iterationDetails(record) {
		lines = append(lines, labelStyle.Render("  "+detail))
	}

	p.send(contentMsg{text: strings.Join(lines, "\n")})
}

// DisplayReport appends the final report.
func (p *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.send(reportMsg{report: report})

	return nil
}

// DisplayArtifactHistory appends the diffs of a module's test file revisions.
func (p *TUI) DisplayArtifactHistory(ctx context.Context, module string, diffs []string) {
	if ctx.Err() != nil {
		return
	}

	text := titleStyle.Render("History of "+m.TestFileName(module)) + "\n" + strings.Join(diffs, "\n")
	p.send(contentMsg{text: text})
}

type (
	runInfoMsg struct {
		runID         string
		modules       int
		threshold     float64
		maxIterations int
	}
	stateMsg struct {
		iteration int
		state     m.State
	}
	contentMsg struct {
		text string
	}
	reportMsg struct {
		report m.Report
	}
	finishedMsg struct{}
)

// progressModel is the Bubble Tea model behind TUI.
type progressModel struct {
	mode     StartMode
	spinner  spinner.Model
	viewport viewport.Model

	title     string
	state     m.State
	iteration int
	finished  bool
	sections  []string
	quitting  bool
}

func newProgressModel(mode StartMode) progressModel {
	title := "autotest"

	switch mode {
	case ModeEstimate:
		title = "autotest - executable lines"
	case ModeView:
		title = "autotest - saved report"
	case ModeRun:
		title = "autotest - test generation"
	}

	return progressModel{
		mode:     mode,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(runningStyle)),
		viewport: viewport.New(80, 20),
		title:    title,
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.viewport.Width = msg.Width
		pm.viewport.Height = max(1, msg.Height-headerLines-1)

		return pm, nil

	case tea.KeyMsg:
		return pm.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd

		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd

	case runInfoMsg:
		pm.title = fmt.Sprintf("autotest run %s", msg.runID)
		pm.appendSection(labelStyle.Render(fmt.Sprintf("%d module(s), threshold %.0f%%, at most %d iteration(s)",
			msg.modules, msg.threshold, msg.maxIterations)))

		return pm, nil

	case stateMsg:
		pm.state = msg.state
		pm.iteration = msg.iteration

		return pm, nil

	case contentMsg:
		pm.appendSection(msg.text)
		return pm, nil

	case reportMsg:
		pm.appendSection(renderReport(msg.report))
		return pm, nil

	case finishedMsg:
		pm.finished = true
		return pm, nil
	}

	var cmd tea.Cmd

	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

//nolint:exhaustive // Only quit keys are handled here; scrolling goes to the viewport.
func (pm progressModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		pm.quitting = true
		return pm, tea.Quit
	default:
	}

	if msg.String() == "q" {
		pm.quitting = true
		return pm, tea.Quit
	}

	var cmd tea.Cmd

	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm *progressModel) appendSection(text string) {
	pm.sections = append(pm.sections, text)
	pm.viewport.SetContent(strings.Join(pm.sections, "\n"))
	pm.viewport.GotoBottom()
}

func (pm progressModel) View() string {
	if pm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(pm.title))
	b.WriteString("\n")
	b.WriteString(pm.statusLine())
	b.WriteString("\n\n")
	b.WriteString(pm.viewport.View())
	b.WriteString("\n")
	if pm.finished {
		b.WriteString(helpStyle.Render("done • ↑/↓ scroll • q quit"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ scroll • q quit"))
	}

	return b.String()
}

func (pm progressModel) statusLine() string {
	if pm.mode != ModeRun {
		return ""
	}

	switch pm.state {
	case m.StateAccepted:
		return acceptedStyle.Render(fmt.Sprintf("accepted after %d iteration(s)", pm.iteration))
	case m.StateAbandoned:
		return abandonedStyle.Render(fmt.Sprintf("abandoned after %d iteration(s)", pm.iteration))
	default:
		return fmt.Sprintf("%s iteration %d: %s", pm.spinner.View(), pm.iteration, pm.state)
	}
}
