package controller

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "autotest.dev/pkg/autotest/internal/model"
)

func update(t *testing.T, pm progressModel, msg tea.Msg) progressModel {
	t.Helper()

	next, _ := pm.Update(msg)

	model, ok := next.(progressModel)
	require.True(t, ok)

	return model
}

func TestProgressModel_RunLifecycle(t *testing.T) {
	pm := newProgressModel(ModeRun)
	pm = update(t, pm, tea.WindowSizeMsg{Width: 120, Height: 40})

	pm = update(t, pm, runInfoMsg{runID: "run-1", modules: 2, threshold: 80, maxIterations: 5})
	assert.Equal(t, "autotest run run-1", pm.title)
	require.Len(t, pm.sections, 1)
	assert.Contains(t, pm.sections[0], "2 module(s), threshold 80%, at most 5 iteration(s)")

	pm = update(t, pm, stateMsg{iteration: 1, state: m.StateExecuting})
	assert.Contains(t, pm.View(), "iteration 1: executing")

	pm = update(t, pm, contentMsg{text: "Iteration 1: coverage 0.00% -> 50.00%"})
	pm = update(t, pm, stateMsg{iteration: 1, state: m.StateAccepted})
	pm = update(t, pm, finishedMsg{})

	view := pm.View()
	assert.Contains(t, view, "accepted after 1 iteration(s)")
	assert.Contains(t, view, "Iteration 1: coverage 0.00% -> 50.00%")
	assert.Contains(t, view, "done")
}

func TestProgressModel_EstimateModeHasNoStatusLine(t *testing.T) {
	pm := newProgressModel(ModeEstimate)
	pm = update(t, pm, stateMsg{iteration: 2, state: m.StateExecuting})

	assert.Empty(t, pm.statusLine())
	assert.Contains(t, pm.View(), "autotest - executable lines")
}

func TestProgressModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		next, cmd := newProgressModel(ModeView).Update(key)

		require.NotNil(t, cmd, key.String())
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, next.View())
	}
}

func TestProgressModel_ReportSection(t *testing.T) {
	pm := update(t, newProgressModel(ModeView), reportMsg{report: m.Report{RunID: "run-9", Success: true, CoveragePct: 90}})

	require.Len(t, pm.sections, 1)
	assert.Contains(t, pm.sections[0], "Run run-9 accepted")
}

func TestTUI_DisplayWithoutProgramIsNoop(t *testing.T) {
	ui := NewTUI(nil, nil)

	ui.DisplayIteration(context.Background(), m.IterationRecord{Index: 1})
	ui.Wait(context.Background())
	ui.Close(context.Background())

	require.NoError(t, ui.DisplayReport(context.Background(), m.Report{}))
}
