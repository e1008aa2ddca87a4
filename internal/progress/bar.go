package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
)

const (
	defaultWidth = 40
	minWidth     = 10
)

// Bar draws a single-line progress bar for one transcoding job.
//
// On a terminal the bar is redrawn in place; otherwise a plain
// "--- Speed: ..., Cursor: ..." line is written per update so that logs
// stay readable.
type Bar struct {
	mu sync.Mutex

	out   io.Writer
	tty   bool
	model bprogress.Model

	total   float64
	current float64
	active  bool
}

// NewBar creates a bar writing to f. The bar takes a third of the terminal
// width when f is a terminal.
func NewBar(f *os.File) *Bar {
	return NewBarWriter(f, term.IsTerminal(int(f.Fd())), ThirdOfTerminal(f, defaultWidth))
}

// ThirdOfTerminal returns a third of the width of the terminal behind f,
// or fallback when f is not a terminal.
func ThirdOfTerminal(f *os.File, fallback int) int {
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols/3 < minWidth {
		return fallback
	}
	return cols / 3
}

// NewBarWriter creates a bar on an arbitrary writer.
func NewBarWriter(out io.Writer, tty bool, width int) *Bar {
	if width < minWidth {
		width = minWidth
	}
	return &Bar{
		out:   out,
		tty:   tty,
		model: bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithWidth(width)),
	}
}

// Start resets the bar for a job of total units.
func (b *Bar) Start(total float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.total = total
	b.current = 0
	b.active = true
	if b.tty {
		b.draw("")
	}
}

// Update moves the bar to current units. speed and cursor are shown as
// reported by the transcoder.
func (b *Bar) Update(current float64, speed, cursor string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	if current > b.total {
		current = b.total
	}
	b.current = current

	if !b.tty {
		fmt.Fprintf(b.out, "--- Speed: %s, Cursor: %s\r", speed, cursor)
		return
	}
	b.draw(speed)
}

// Complete fills the bar and ends the line.
func (b *Bar) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	b.current = b.total
	if b.tty {
		b.draw("")
	}
	fmt.Fprintln(b.out)
	b.active = false
}

// Stop ends the line without filling the bar. It is safe to call more
// than once.
func (b *Bar) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return
	}
	fmt.Fprintln(b.out)
	b.active = false
}

// Percent returns the completed fraction in [0, 1].
func (b *Bar) Percent() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.percent()
}

func (b *Bar) percent() float64 {
	if b.total <= 0 {
		return 0
	}
	return b.current / b.total
}

func (b *Bar) draw(speed string) {
	var line strings.Builder
	line.WriteString("\r")
	line.WriteString(b.model.ViewAs(b.percent()))
	fmt.Fprintf(&line, " | %.1f/%.1f min", b.current, b.total)
	if speed != "" {
		line.WriteString(" | ")
		line.WriteString(speed)
	}
	io.WriteString(b.out, line.String())
}
