package model

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Metadata is the normalized description of one video, as resolved from
// the platform API.
type Metadata struct {
	// ID is the video GUID the record was resolved for.
	ID string

	// Title is the video name. The orchestrator rewrites a local copy of it
	// into a unique filename before transcoding.
	Title string

	// Date is the publish date formatted as DD-MM-YYYY in local time.
	Date string

	// TotalUnits is the media duration in fractional minutes. It is the
	// scale of the progress indicator and is always > 0 for a valid record.
	TotalUnits float64

	// PlaybackURL is the adaptive HTTP streaming (HLS) manifest URL.
	PlaybackURL string

	// PosterImage is the URL of the medium sized poster image.
	PosterImage string
}

// DurationSeconds returns the media duration in whole seconds.
func (m Metadata) DurationSeconds() int {
	return int(m.TotalUnits*60 + 0.5)
}

// Job is one video's processing unit: its metadata, the directory it is
// written to and, once named, its output path.
type Job struct {
	// ID correlates progress events of one job.
	ID string

	// Index is the position of the job in the requested order (0-based).
	Index int

	// Video is a job-local copy of the resolved metadata.
	Video Metadata

	// Directory is the destination directory.
	Directory string

	// OutputPath is set during naming: Directory/Title.ext.
	OutputPath string
}

// NewJob pairs a metadata record with its destination directory.
func NewJob(index int, video Metadata, directory string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Index:     index,
		Video:     video,
		Directory: directory,
	}
}

// SetOutput records the final title and computes the output path.
func (j *Job) SetOutput(title, ext string) {
	j.Video.Title = title
	j.OutputPath = filepath.Join(j.Directory, title+"."+ext)
}
