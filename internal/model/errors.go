package model

import (
	"context"
	"errors"
	"fmt"
)

// ExitCode is the process exit status for a class of fatal errors.
type ExitCode int

const (
	CodeNoError ExitCode = iota
	CodeUnhandled
	CodeMissingFFmpeg
	CodeElevatedShell
	CodeInvalidOutputDir
	CodeInvalidInputURLs
	CodeOutDirsURLsMismatch
	CodeInvalidVideoID
	CodeInvalidVideoGUID
	CodeUnknownFFmpegError
	CodeNoSessionInfo
	CodeNoLoginDataFile
	CodeReadLoginDataFail
	CodeMetadataResolution

	// CodeInterrupted follows the shell convention for SIGINT.
	CodeInterrupted ExitCode = 130
)

var codeNames = map[ExitCode]string{
	CodeNoError:             "no error",
	CodeUnhandled:           "unhandled error",
	CodeMissingFFmpeg:       "ffmpeg is missing",
	CodeElevatedShell:       "running with elevated privileges",
	CodeInvalidOutputDir:    "invalid output directory",
	CodeInvalidInputURLs:    "invalid input URLs",
	CodeOutDirsURLsMismatch: "output directories and URLs mismatch",
	CodeInvalidVideoID:      "invalid video id",
	CodeInvalidVideoGUID:    "invalid video GUID",
	CodeUnknownFFmpegError:  "ffmpeg error",
	CodeNoSessionInfo:       "no session info",
	CodeNoLoginDataFile:     "login data file not found",
	CodeReadLoginDataFail:   "failed to read login data",
	CodeMetadataResolution:  "metadata resolution failed",
	CodeInterrupted:         "interrupted",
}

// String returns a short human readable description of the code.
func (c ExitCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("exit code %d", int(c))
}

// ErrInterrupted is returned when a run is cancelled by a signal.
var ErrInterrupted = errors.New("interrupted")

// Error is a fatal error tagged with the exit code the process should use.
type Error struct {
	Code ExitCode
	Err  error
}

// NewError wraps err with an exit code.
func NewError(code ExitCode, err error) error {
	return &Error{Code: code, Err: err}
}

// Errorf formats a message and tags it with an exit code.
func Errorf(code ExitCode, format string, args ...any) error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the exit code carried by err. Interruptions map to
// CodeInterrupted and untagged errors to CodeUnhandled.
func CodeOf(err error) ExitCode {
	if err == nil {
		return CodeNoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled) {
		return CodeInterrupted
	}
	return CodeUnhandled
}
