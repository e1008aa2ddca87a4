package model

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent is a message reported by a long-running operation.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// JobID is set for events that belong to one download job.
	JobID string

	// Video is set for simulate-mode reports.
	Video *Metadata
}
