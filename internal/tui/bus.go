package tui

import tea "github.com/charmbracelet/bubbletea"

const busSize = 256

// eventBus carries messages from the background run to the program.
type eventBus struct {
	ch chan tea.Msg
}

func newEventBus() *eventBus {
	return &eventBus{ch: make(chan tea.Msg, busSize)}
}

func (b *eventBus) send(msg tea.Msg) {
	b.ch <- msg
}

// trySend drops msg when the program lags behind.
func (b *eventBus) trySend(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

// wait returns a command that delivers the next message. Every handler of
// a bus message schedules the next wait.
func (b *eventBus) wait() tea.Cmd {
	return func() tea.Msg {
		return <-b.ch
	}
}

// busIndicator reports job progress to the program.
type busIndicator struct {
	bus *eventBus
}

func (i busIndicator) Start(total float64) {
	i.bus.send(JobStartMsg{Total: total})
}

func (i busIndicator) Update(current float64, speed, _ string) {
	i.bus.trySend(JobUpdateMsg{Current: current, Speed: speed})
}

func (i busIndicator) Complete() {
	i.bus.send(JobEndMsg{Completed: true})
}

func (i busIndicator) Stop() {
	i.bus.send(JobEndMsg{Completed: false})
}
