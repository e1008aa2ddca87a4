package download

import (
	"fmt"
	"os"

	"github.com/handiism/destreamer/internal/auth"
	"github.com/handiism/destreamer/internal/config"
	dhttp "github.com/handiism/destreamer/internal/http"
	ioutils "github.com/handiism/destreamer/internal/io"
	"github.com/handiism/destreamer/internal/playlist"
	"github.com/handiism/destreamer/internal/progress"
	"github.com/handiism/destreamer/internal/stream"
	"github.com/handiism/destreamer/internal/transcode"
)

const defaultThumbnailWidth = 40

// Runner is an Orchestrator built from settings, together with the
// resources it owns.
type Runner struct {
	*Orchestrator

	FFmpeg *transcode.FFmpeg
	cache  auth.TokenCache
}

// NewRunner wires the production collaborators described by settings:
// token cache (Redis when RedisURL is set, a JSON file otherwise), browser
// login, metadata API client, ffmpeg, progress bar and thumbnails drawn on
// out.
func NewRunner(settings *config.Settings, credentials []string, out *os.File, onProgress func(ProgressEvent)) (*Runner, error) {
	cache, err := newTokenCache(settings)
	if err != nil {
		return nil, err
	}

	authenticator := auth.NewBrowserAuthenticator(settings.BrowserPath, settings.HideBrowser, settings.LoginTimeoutDuration())
	provider := auth.NewProvider(cache, authenticator, auth.ProviderConfig{
		Credentials:    credentials,
		SuppressDialog: settings.SuppressLoginDialog,
		Attempts:       settings.SessionRetrieveAttempts,
		Cooldown:       settings.SessionRetrieveCooldownDuration(),
		ExpiryMargin:   settings.SessionExpiryMarginDuration(),
		FallbackTTL:    settings.SessionFallbackTTLDuration(),
		MaxReuse:       settings.SessionMaxReuse,
	}, onProgress)

	client := dhttp.NewClient(settings.HTTPTimeoutDuration())
	resolver := stream.NewResolver(client, settings.MaxConcurrentMetadata)
	resolver.OnRequest(func(apiURL string) {
		if onProgress != nil {
			onProgress(ProgressEvent{Message: "Fetching " + apiURL, Level: LevelVerbose})
		}
	})

	opts := Options{
		NoCleanup:       settings.NoCleanup,
		NoThumbnails:    settings.NoThumbnails,
		OutputExtension: settings.OutputExtension,
	}
	if settings.CreatePlaylist {
		format, err := playlist.ParseFormat(settings.PlaylistFormat)
		if err != nil {
			return nil, err
		}
		opts.Playlist = playlist.NewWriter(format, settings.M3UExtended)
	}

	ffmpeg := transcode.NewFFmpeg(settings.FFmpegPath)
	orch := NewOrchestrator(provider, resolver, ffmpeg, progress.NewBar(out), opts, onProgress)

	if !settings.NoThumbnails {
		width := settings.ThumbnailWidth
		if width <= 0 {
			width = progress.ThirdOfTerminal(out, defaultThumbnailWidth)
		}
		orch.WithThumbnails(ioutils.NewThumbnailRenderer(client, out, width))
	}

	if fc, ok := cache.(*auth.FileCache); ok && onProgress != nil {
		onProgress(ProgressEvent{Message: "Token cache: " + fc.Path(), Level: LevelVerbose})
	}

	return &Runner{Orchestrator: orch, FFmpeg: ffmpeg, cache: cache}, nil
}

// SetSimulate switches the run to metadata reporting only.
func (r *Runner) SetSimulate(simulate bool) {
	r.opts.Simulate = simulate
}

// Close releases the token cache connection.
func (r *Runner) Close() error {
	if rc, ok := r.cache.(*auth.RedisCache); ok {
		return rc.Close()
	}
	return nil
}

func newTokenCache(settings *config.Settings) (auth.TokenCache, error) {
	margin := settings.SessionExpiryMarginDuration()
	if settings.RedisURL != "" {
		cache, err := auth.NewRedisCache(settings.RedisURL, settings.RedisKey, margin)
		if err != nil {
			return nil, fmt.Errorf("token cache: %w", err)
		}
		return cache, nil
	}
	return auth.NewFileCache(settings.TokenCachePath, margin), nil
}
