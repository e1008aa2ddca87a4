package model

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func TestSession_Valid(t *testing.T) {
	now := time.Date(2021, 3, 5, 10, 0, 0, 0, time.UTC)
	base := Session{
		AccessToken:       "token",
		APIGatewayURI:     "https://api.example.com/api/",
		APIGatewayVersion: "1.4-private",
	}

	tests := []struct {
		name    string
		expires time.Time
		margin  time.Duration
		want    bool
	}{
		{"unknown expiry", time.Time{}, 0, false},
		{"expired", now.Add(-time.Minute), 0, false},
		{"valid", now.Add(time.Hour), 0, true},
		{"inside margin", now.Add(time.Minute), 5 * time.Minute, false},
		{"outside margin", now.Add(10 * time.Minute), 5 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			s.ExpiresAt = tt.expires
			if got := s.Valid(now, tt.margin); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}

	if (Session{}).Valid(now, 0) {
		t.Error("zero session should never be valid")
	}
}

func TestJob_SetOutput(t *testing.T) {
	video := Metadata{ID: "guid", Title: "Original", Date: "05-03-2021", TotalUnits: 1.5}
	job := NewJob(1, video, "/videos")

	if job.ID == "" {
		t.Error("NewJob should assign an ID")
	}

	job.SetOutput("Lecture - 05-03-2021", "mkv")

	want := filepath.Join("/videos", "Lecture - 05-03-2021.mkv")
	if job.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", job.OutputPath, want)
	}
	if video.Title != "Original" {
		t.Error("SetOutput must not modify the caller's metadata")
	}
}

func TestMetadata_DurationSeconds(t *testing.T) {
	m := Metadata{TotalUnits: 1 + 1.0/60}
	if got := m.DurationSeconds(); got != 61 {
		t.Errorf("DurationSeconds() = %d, want 61", got)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, CodeNoError},
		{"plain", errors.New("boom"), CodeUnhandled},
		{"coded", NewError(CodeNoSessionInfo, errors.New("x")), CodeNoSessionInfo},
		{"wrapped coded", fmt.Errorf("job 2: %w", Errorf(CodeUnknownFFmpegError, "exit 1")), CodeUnknownFFmpegError},
		{"interrupted", fmt.Errorf("job: %w", ErrInterrupted), CodeInterrupted},
		{"canceled", context.Canceled, CodeInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
