package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/destreamer/internal/config"
	"github.com/handiism/destreamer/internal/download"
	"github.com/handiism/destreamer/internal/model"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestOptionToggles(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})

	if !m.simulate || !m.playlist || !m.verbose {
		t.Errorf("toggles = simulate %v playlist %v verbose %v, want all on", m.simulate, m.playlist, m.verbose)
	}
	if !strings.Contains(m.View(), "[x] Simulate") {
		t.Error("view does not show the simulate option as enabled")
	}
}

func TestJobProgress(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.state = StateRunning

	m = update(t, m, JobStartMsg{Total: 4})
	m = update(t, m, JobUpdateMsg{Current: 1, Speed: "900kbits/s"})
	if got := m.percent(); got != 0.25 {
		t.Errorf("percent = %v, want 0.25", got)
	}
	if !strings.Contains(m.View(), "900kbits/s") {
		t.Error("view does not show the throughput")
	}

	m = update(t, m, JobUpdateMsg{Current: 10})
	if got := m.percent(); got != 1 {
		t.Errorf("percent after overshoot = %v, want 1", got)
	}

	m = update(t, m, JobEndMsg{Completed: true})
	if m.jobActive || m.finished != 1 {
		t.Errorf("after JobEndMsg: active %v finished %d", m.jobActive, m.finished)
	}
}

func TestVerboseLogsFiltered(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "debug", Level: download.LevelVerbose}})
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "hello", Level: download.LevelInfo}})

	if len(m.logs) != 1 || m.logs[0].Message != "hello" {
		t.Errorf("logs = %+v, want only the info entry", m.logs)
	}
}

func TestSimulateBlocksCollected(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.simulate = true
	m.state = StateRunning

	video := &model.Metadata{Title: "Lecture 1", Date: "05-03-2021", PlaybackURL: "https://cdn/1"}
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "x", Video: video}})
	m = update(t, m, RunDoneMsg{})

	if m.state != StateComplete {
		t.Fatalf("state = %v, want complete", m.state)
	}
	view := m.View()
	for _, want := range []string{"Lecture 1", "05-03-2021", "https://cdn/1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuitWaitsForCleanup(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.state = StateRunning

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	if cmd != nil {
		t.Error("ctrl+c during a run should not quit before the run returns")
	}
	if m.ctx.Err() == nil || !m.quitting {
		t.Error("ctrl+c should cancel the run")
	}

	_, cmd = m.Update(RunDoneMsg{Err: model.ErrInterrupted})
	if cmd == nil {
		t.Fatal("expected quit command after the run returned")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestRunError(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.state = StateRunning

	m = update(t, m, RunDoneMsg{Err: model.NewError(model.CodeNoSessionInfo, errors.New("no session"))})
	if m.state != StateError {
		t.Fatalf("state = %v, want error", m.state)
	}
	if !strings.Contains(m.View(), "no session info") {
		t.Errorf("view does not show the exit code: %q", m.View())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.state != StateInput || m.err != nil {
		t.Error("r should reset to the input state")
	}
}
