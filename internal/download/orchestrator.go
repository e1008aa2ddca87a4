package download

import (
	"context"
	"errors"
	"fmt"

	dhttp "github.com/handiism/destreamer/internal/http"
	ioutils "github.com/handiism/destreamer/internal/io"
	"github.com/handiism/destreamer/internal/model"
	"github.com/handiism/destreamer/internal/playlist"
	"github.com/handiism/destreamer/internal/stream"
	"github.com/handiism/destreamer/internal/transcode"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel = model.ProgressLevel

const (
	LevelInfo    = model.LevelInfo
	LevelVerbose = model.LevelVerbose
	LevelWarning = model.LevelWarning
	LevelError   = model.LevelError
	LevelSuccess = model.LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent = model.ProgressEvent

// SessionSource supplies a valid session before every job.
type SessionSource interface {
	// Obtain returns the session for one download job.
	Obtain(ctx context.Context, seedURL string) (model.Session, error)

	// Lookup returns a session for a request that is not a download job.
	Lookup(ctx context.Context, seedURL string) (model.Session, error)

	// Invalidate discards the current session after the API rejected it.
	Invalidate()
}

// MetadataSource resolves video metadata in request order.
type MetadataSource interface {
	Resolve(ctx context.Context, ids []string, session model.Session) ([]model.Metadata, error)
}

// Indicator displays the progress of the running job.
type Indicator interface {
	Start(total float64)
	Update(current float64, speed, cursor string)
	Complete()
	Stop()
}

// Thumbnailer draws a video poster before its download starts.
type Thumbnailer interface {
	Draw(ctx context.Context, posterURL, accessToken string) error
}

// Options controls an Orchestrator run.
type Options struct {
	// Simulate only reports the resolved metadata.
	Simulate bool

	// NoCleanup keeps partial output files on failure or interruption.
	NoCleanup bool

	// NoThumbnails disables poster drawing.
	NoThumbnails bool

	// OutputExtension is the container extension, "mkv" by default.
	OutputExtension string

	// Playlist, when set, writes a playlist into every output directory.
	Playlist *playlist.Writer

	// PlaylistName is the playlist file name without extension.
	PlaylistName string
}

// Orchestrator downloads videos one at a time: it keeps a valid session,
// resolves metadata for the whole batch, names every output file and runs
// the transcoder for each job in the requested order.
type Orchestrator struct {
	sessions   SessionSource
	resolver   MetadataSource
	transcoder transcode.Transcoder
	indicator  Indicator
	thumbnails Thumbnailer
	opts       Options

	onProgress func(ProgressEvent)
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	sessions SessionSource,
	resolver MetadataSource,
	transcoder transcode.Transcoder,
	indicator Indicator,
	opts Options,
	onProgress func(ProgressEvent),
) *Orchestrator {
	if opts.OutputExtension == "" {
		opts.OutputExtension = "mkv"
	}
	if opts.PlaylistName == "" {
		opts.PlaylistName = "destreamer"
	}
	return &Orchestrator{
		sessions:   sessions,
		resolver:   resolver,
		transcoder: transcoder,
		indicator:  indicator,
		opts:       opts,
		onProgress: onProgress,
	}
}

// WithIndicator replaces the progress indicator.
func (o *Orchestrator) WithIndicator(ind Indicator) *Orchestrator {
	o.indicator = ind
	return o
}

// WithThumbnails enables poster drawing.
func (o *Orchestrator) WithThumbnails(t Thumbnailer) *Orchestrator {
	o.thumbnails = t
	return o
}

// Run downloads every video in urls. dirs are assigned to jobs round-robin.
//
// Cancelling ctx does not interrupt session acquisition or metadata
// resolution. It is checked before each job and stops a running
// transcoder, whose partial output is then removed. The first transcoder
// failure ends the run.
func (o *Orchestrator) Run(ctx context.Context, urls, dirs []string) error {
	if len(urls) == 0 {
		return model.Errorf(model.CodeInvalidInputURLs, "no video URLs given")
	}

	assigned, err := AssignDirectories(len(urls), dirs)
	if err != nil {
		return err
	}

	guids, err := stream.VideoGUIDs(urls)
	if err != nil {
		return err
	}

	// Login and metadata calls are short-lived; let them finish.
	setup := context.WithoutCancel(ctx)

	videos, err := o.resolve(setup, urls[0], guids)
	if err != nil {
		return err
	}

	if o.opts.Simulate {
		for _, video := range videos {
			o.reportVideo(video)
		}
		return nil
	}

	for _, dir := range distinct(assigned) {
		if err := ioutils.EnsureDir(dir); err != nil {
			return model.NewError(model.CodeInvalidOutputDir, fmt.Errorf("create output directory: %w", err))
		}
	}
	multipleDirs := len(distinct(assigned)) > 1

	entries := make(map[string][]playlist.Entry)
	for i, video := range videos {
		if ctx.Err() != nil {
			return fmt.Errorf("before job %d: %w", i+1, model.ErrInterrupted)
		}

		job := model.NewJob(i, video, assigned[i])
		if multipleDirs {
			o.progress(ProgressEvent{Message: "Output directory: " + job.Directory, Level: LevelInfo, JobID: job.ID})
		}

		session, err := o.sessions.Obtain(setup, urls[i])
		if err != nil {
			return err
		}

		if err := o.runJob(ctx, job, len(videos), session); err != nil {
			return err
		}

		entries[job.Directory] = append(entries[job.Directory], playlist.Entry{
			Path:    job.OutputPath,
			Title:   job.Video.Title,
			Minutes: job.Video.TotalUnits,
		})
	}

	o.writePlaylists(assigned, entries)
	return nil
}

// resolve fetches the batch metadata, logging in again once if the API
// rejects the session.
func (o *Orchestrator) resolve(ctx context.Context, seedURL string, guids []string) ([]model.Metadata, error) {
	session, err := o.sessions.Lookup(ctx, seedURL)
	if err != nil {
		return nil, err
	}

	o.progress(ProgressEvent{Message: fmt.Sprintf("Fetching metadata for %d video(s)...", len(guids)), Level: LevelInfo})

	videos, err := o.resolver.Resolve(ctx, guids, session)
	if err == nil || !rejected(err) {
		return videos, err
	}

	o.progress(ProgressEvent{Message: "Access token was rejected, logging in again.", Level: LevelWarning})
	o.sessions.Invalidate()

	session, err = o.sessions.Lookup(ctx, seedURL)
	if err != nil {
		return nil, err
	}
	return o.resolver.Resolve(ctx, guids, session)
}

func rejected(err error) bool {
	var statusErr *dhttp.StatusError
	return errors.As(err, &statusErr) && statusErr.Unauthorized()
}

// uniqueSuffixRoom is kept free in output names for the " - N" suffix of
// UniqueTitle.
const uniqueSuffixRoom = len(" - 9999")

func (o *Orchestrator) runJob(ctx context.Context, job *model.Job, total int, session model.Session) error {
	ext := o.opts.OutputExtension
	suffix := " - " + job.Video.Date
	budget := ioutils.MaxNameBytes - len(suffix) - uniqueSuffixRoom - len("."+ext)
	title := ioutils.TruncateName(ioutils.SanitizeFileName(job.Video.Title), budget) + suffix
	job.SetOutput(ioutils.UniqueTitle(title, job.Directory, ext), ext)

	o.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloading %s (%d/%d)", job.Video.Title, job.Index+1, total),
		Level:   LevelInfo,
		JobID:   job.ID,
	})

	if o.thumbnails != nil && !o.opts.NoThumbnails {
		if err := o.thumbnails.Draw(ctx, job.Video.PosterImage, session.AccessToken); err != nil {
			o.progress(ProgressEvent{Message: fmt.Sprintf("Could not draw thumbnail: %v", err), Level: LevelVerbose, JobID: job.ID})
		}
	}

	return o.transcode(ctx, job, session)
}

func (o *Orchestrator) transcode(ctx context.Context, job *model.Job, session model.Session) error {
	proc, err := o.transcoder.Spawn(ctx,
		transcode.Input{URL: job.Video.PlaybackURL, Headers: dhttp.BearerHeader(session.AccessToken)},
		transcode.Output{Path: job.OutputPath, CopyAudio: true, CopyVideo: true},
	)
	if err != nil {
		return model.NewError(model.CodeUnknownFFmpegError, err)
	}

	active := newActiveJob(job.OutputPath, o.indicator, o.opts.NoCleanup)
	defer active.Cleanup()

	o.indicator.Start(job.Video.TotalUnits)
	events := proc.Events()

	for {
		select {
		case <-ctx.Done():
			proc.Kill()
			drain(events)
			active.Cleanup()
			o.progress(ProgressEvent{Message: "Download interrupted: " + job.OutputPath, Level: LevelWarning, JobID: job.ID})
			return fmt.Errorf("download %s: %w", job.Video.Title, model.ErrInterrupted)

		case ev, ok := <-events:
			if !ok {
				active.Cleanup()
				return model.Errorf(model.CodeUnknownFFmpegError, "transcoder exited without a result for %s", job.Video.Title)
			}

			switch ev.Kind {
			case transcode.EventUpdate:
				if units, ok := transcode.TimemarkToUnits(ev.Timemark); ok {
					o.indicator.Update(units, ev.Bitrate, ev.Timemark)
				}

			case transcode.EventError:
				active.Cleanup()
				o.progress(ProgressEvent{Message: fmt.Sprintf("Transcoding failed: %v", ev.Err), Level: LevelError, JobID: job.ID})
				return model.NewError(model.CodeUnknownFFmpegError, fmt.Errorf("transcode %s: %w", job.Video.Title, ev.Err))

			case transcode.EventSuccess:
				o.indicator.Complete()
				active.Release()
				o.progress(ProgressEvent{Message: "Download finished: " + job.OutputPath, Level: LevelSuccess, JobID: job.ID})
				return nil
			}
		}
	}
}

func (o *Orchestrator) reportVideo(video model.Metadata) {
	v := video
	o.progress(ProgressEvent{
		Message: fmt.Sprintf("Title: %s\nPublished Date: %s\nPlayback URL: %s", v.Title, v.Date, v.PlaybackURL),
		Level:   LevelInfo,
		Video:   &v,
	})
}

func (o *Orchestrator) writePlaylists(assigned []string, entries map[string][]playlist.Entry) {
	if o.opts.Playlist == nil {
		return
	}

	for _, dir := range distinct(assigned) {
		if len(entries[dir]) == 0 {
			continue
		}
		path, err := o.opts.Playlist.Write(dir, o.opts.PlaylistName, entries[dir])
		if err != nil {
			o.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
			continue
		}
		o.progress(ProgressEvent{Message: "Created playlist " + path, Level: LevelSuccess})
	}
}

func (o *Orchestrator) progress(event ProgressEvent) {
	if o.onProgress != nil {
		o.onProgress(event)
	}
}

func drain(events <-chan transcode.Event) {
	for range events {
	}
}

func distinct(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	var out []string
	for _, d := range dirs {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
