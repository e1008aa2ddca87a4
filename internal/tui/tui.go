// Package tui provides a Bubble Tea terminal user interface for destreamer.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/destreamer/internal/config"
	"github.com/handiism/destreamer/internal/download"
	"github.com/handiism/destreamer/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	videoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	videos    []model.Metadata
	err       error

	ctx    context.Context
	cancel context.CancelFunc
	bus    *eventBus

	// Current job progress in fractional minutes.
	jobActive bool
	jobTotal  float64
	jobDone   float64
	jobSpeed  string
	finished  int

	// Options
	simulate bool
	playlist bool
	verbose  bool

	// quitting is set when the user asked to leave during a run; the
	// program exits once the run has cleaned up.
	quitting bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "https://web.microsoftstream.com/video/..., ..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		ctx:       ctx,
		cancel:    cancel,
		bus:       newEventBus(),
		playlist:  settings.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.bus.wait())
}

// Message types
type (
	// ProgressMsg carries an orchestrator event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// JobStartMsg is sent when a transcoder starts.
	JobStartMsg struct {
		Total float64
	}

	// JobUpdateMsg is sent on transcoder progress.
	JobUpdateMsg struct {
		Current float64
		Speed   string
	}

	// JobEndMsg is sent when a job completes or is stopped.
	JobEndMsg struct {
		Completed bool
	}

	// RunDoneMsg is sent when the run returns.
	RunDoneMsg struct {
		Err error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.state == StateRunning {
				m.cancel()
				m.quitting = true
				return m, nil
			}
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateRunning
				return m, tea.Batch(m.startRun(), m.spinner.Tick)
			}

		case "s":
			if m.state == StateInput {
				m.simulate = !m.simulate
			}

		case "p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m = m.reset()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.bus.wait())
		if msg.Event.Video != nil {
			m.videos = append(m.videos, *msg.Event.Video)
			break
		}
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case JobStartMsg:
		cmds = append(cmds, m.bus.wait())
		m.jobActive = true
		m.jobTotal = msg.Total
		m.jobDone = 0
		m.jobSpeed = ""

	case JobUpdateMsg:
		cmds = append(cmds, m.bus.wait())
		m.jobDone = min(msg.Current, m.jobTotal)
		m.jobSpeed = msg.Speed
		cmds = append(cmds, m.progress.SetPercent(m.percent()))

	case JobEndMsg:
		cmds = append(cmds, m.bus.wait())
		m.jobActive = false
		if msg.Completed {
			m.finished++
		}

	case RunDoneMsg:
		switch {
		case m.quitting:
			return m, tea.Quit
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) reset() Model {
	m.state = StateInput
	m.logs = nil
	m.videos = nil
	m.err = nil
	m.finished = 0
	m.jobActive = false
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func (m Model) percent() float64 {
	if m.jobTotal <= 0 {
		return 0
	}
	return m.jobDone / m.jobTotal
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("destreamer"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download videos from a private streaming platform"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter video URL(s), comma separated:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Simulate, print metadata only (s)\n", checkbox(m.simulate))
	fmt.Fprintf(&b, "  %s Create playlist (p)\n", checkbox(m.playlist))
	fmt.Fprintf(&b, "  %s Verbose output (v)\n", checkbox(m.verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Output directory: " + m.settings.OutputDirectory))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	if m.jobActive {
		b.WriteString(m.progress.ViewAs(m.percent()))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("%.1f/%.1f min | %s", m.jobDone, m.jobTotal, m.jobSpeed)))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		if m.quitting {
			b.WriteString(subtitleStyle.Render("Cleaning up..."))
		} else {
			b.WriteString(subtitleStyle.Render("Working..."))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())
	return b.String()
}

func (m Model) viewComplete() string {
	if m.simulate {
		var b strings.Builder
		for _, v := range m.videos {
			b.WriteString(videoStyle.Render(v.Title))
			b.WriteString("\n")
			fmt.Fprintf(&b, "  Published Date: %s\n  Playback URL: %s\n\n", v.Date, v.PlaybackURL)
		}
		return b.String()
	}

	return boxStyle.Render(fmt.Sprintf("Download Complete!\n\nVideos: %d", m.finished))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render(fmt.Sprintf("Error (%s):", model.CodeOf(m.err))))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "x"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "+"
		case download.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start | s: simulate | p: playlist | v: verbose | esc: quit"
	case StateRunning:
		return "esc: cancel | ctrl+c: cancel and quit"
	case StateComplete, StateError:
		return "r: new download | q: quit"
	}
	return ""
}

// startRun builds the orchestrator and runs it in the background.
func (m Model) startRun() tea.Cmd {
	settings := *m.settings
	settings.CreatePlaylist = m.playlist
	// The alternate screen owns the terminal.
	settings.NoThumbnails = true

	urls := download.ParseVideoURLs(m.textInput.Value())
	ctx, bus, simulate := m.ctx, m.bus, m.simulate

	return func() tea.Msg {
		runner, err := download.NewRunner(&settings, nil, os.Stdout, func(e download.ProgressEvent) {
			bus.send(ProgressMsg{Event: e})
		})
		if err != nil {
			return RunDoneMsg{Err: err}
		}
		defer runner.Close()

		runner.WithIndicator(busIndicator{bus: bus})
		runner.SetSimulate(simulate)

		return RunDoneMsg{Err: runner.Run(ctx, urls, []string{settings.OutputDirectory})}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
