package transcode

import (
	"context"
	"net/http"
)

// EventKind distinguishes the events a transcoding process emits.
type EventKind int

const (
	// EventUpdate reports progress: Timemark and Bitrate are set.
	EventUpdate EventKind = iota
	// EventError is terminal: Err is set.
	EventError
	// EventSuccess is terminal: the output file is complete.
	EventSuccess
)

func (k EventKind) String() string {
	switch k {
	case EventUpdate:
		return "update"
	case EventError:
		return "error"
	case EventSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Event is one notification from a running process.
type Event struct {
	Kind EventKind

	// Timemark is the position reached in the input, "HH:MM:SS.micro".
	Timemark string

	// Bitrate is the current throughput as reported, e.g. "2311.4kbits/s".
	Bitrate string

	Err error
}

// Input is the remote stream to read.
type Input struct {
	URL     string
	Headers http.Header
}

// Output is the local file to produce.
type Output struct {
	Path string

	// CopyAudio and CopyVideo repackage the streams without re-encoding.
	CopyAudio bool
	CopyVideo bool
}

// Transcoder starts transcoding processes.
type Transcoder interface {
	Spawn(ctx context.Context, in Input, out Output) (Process, error)
}

// Process is a running transcoding job.
//
// Events delivers any number of EventUpdate values followed by exactly one
// terminal event, after which the channel is closed. Update events may be
// dropped when the receiver lags behind; terminal events never are.
type Process interface {
	Events() <-chan Event

	// Kill terminates the process. The terminal event is still delivered.
	Kill() error
}
