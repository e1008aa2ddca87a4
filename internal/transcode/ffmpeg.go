package transcode

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"
	"sync"
)

const (
	progressTimeKey    = "out_time="
	progressBitrateKey = "bitrate="
	progressStateKey   = "progress="

	stderrTailSize = 4096
	eventBuffer    = 16
)

// ErrMissingFFmpeg is returned when the ffmpeg executable cannot be found.
var ErrMissingFFmpeg = errors.New("ffmpeg not found")

// FFmpeg runs the ffmpeg executable as a child process.
type FFmpeg struct {
	path    string
	command func(name string, args ...string) *exec.Cmd
}

// NewFFmpeg creates a transcoder running the executable at path, which is
// looked up on PATH when it has no separator.
func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{path: path, command: exec.Command}
}

// LookPath resolves the executable, failing with ErrMissingFFmpeg.
func (f *FFmpeg) LookPath() (string, error) {
	resolved, err := exec.LookPath(f.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingFFmpeg, err)
	}
	return resolved, nil
}

// Args builds the ffmpeg command line for one job.
func Args(in Input, out Output) []string {
	args := []string{"-nostdin"}

	if len(in.Headers) > 0 {
		args = append(args, "-headers", formatHeaders(in))
	}
	args = append(args, "-i", in.URL)

	if out.CopyAudio {
		args = append(args, "-c:a", "copy")
	}
	if out.CopyVideo {
		args = append(args, "-c:v", "copy")
	}

	return append(args,
		"-progress", "pipe:1",
		"-nostats",
		"-loglevel", "error",
		"-y", out.Path,
	)
}

func formatHeaders(in Input) string {
	keys := make([]string, 0, len(in.Headers))
	for k := range in.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range in.Headers[k] {
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(v)
			b.WriteString("\r\n")
		}
	}
	return b.String()
}

// Spawn starts ffmpeg. The process is not tied to ctx; callers stop it with
// Kill so that they can clean up before the process is gone.
func (f *FFmpeg) Spawn(_ context.Context, in Input, out Output) (Process, error) {
	cmd := f.command(f.path, Args(in, out)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr := &tailBuffer{limit: stderrTailSize}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	p := &ffmpegProcess{
		cmd:    cmd,
		events: make(chan Event, eventBuffer),
	}
	go p.run(stdout, stderr)
	return p, nil
}

type ffmpegProcess struct {
	cmd    *exec.Cmd
	events chan Event

	mu     sync.Mutex
	killed bool
}

func (p *ffmpegProcess) Events() <-chan Event { return p.events }

func (p *ffmpegProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.killed {
		return nil
	}
	p.killed = true
	return p.cmd.Process.Kill()
}

func (p *ffmpegProcess) run(stdout io.Reader, stderr *tailBuffer) {
	defer close(p.events)

	ScanProgress(stdout, func(e Event) {
		select {
		case p.events <- e:
		default:
		}
	})

	err := p.cmd.Wait()

	p.mu.Lock()
	killed := p.killed
	p.mu.Unlock()

	switch {
	case killed:
		p.events <- Event{Kind: EventError, Err: errors.New("ffmpeg was killed")}
	case err != nil:
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		p.events <- Event{Kind: EventError, Err: fmt.Errorf("ffmpeg: %s", msg)}
	default:
		p.events <- Event{Kind: EventSuccess}
	}
}

// ScanProgress parses the key=value blocks written by "-progress" and calls
// emit with an EventUpdate at the end of every block.
func ScanProgress(r io.Reader, emit func(Event)) {
	var timemark, bitrate string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, progressTimeKey):
			timemark = strings.TrimPrefix(line, progressTimeKey)
		case strings.HasPrefix(line, progressBitrateKey):
			bitrate = strings.TrimSpace(strings.TrimPrefix(line, progressBitrateKey))
		case strings.HasPrefix(line, progressStateKey):
			emit(Event{Kind: EventUpdate, Timemark: timemark, Bitrate: bitrate})
		}
	}

	// Drain so that the child never blocks on a full pipe.
	io.Copy(io.Discard, r)
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(p)
	if len(p) > t.limit {
		p = p[len(p)-t.limit:]
	}
	if over := t.buf.Len() + len(p) - t.limit; over > 0 {
		t.buf.Next(over)
	}
	t.buf.Write(p)
	return n, nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}
