package stream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/handiism/destreamer/internal/http"
	"github.com/handiism/destreamer/internal/model"
	"github.com/handiism/destreamer/internal/stream/dto"
	"golang.org/x/sync/errgroup"
)

// ErrNoPlaybackURL is returned when a video has no HLS playback URL.
var ErrNoPlaybackURL = errors.New("no HLS playback URL")

// ResolveError reports a failure to resolve one video.
type ResolveError struct {
	ID  string
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve video %s: %v", e.ID, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Resolver fetches video metadata from the platform API.
//
// Example usage:
//
//	resolver := NewResolver(http.NewClient(60*time.Second), -1)
//	videos, err := resolver.Resolve(ctx, guids, session)
type Resolver struct {
	client    *http.Client
	limit     int
	onRequest func(apiURL string)
}

// NewResolver creates a Resolver. limit bounds the number of concurrent
// requests; a negative value means no limit.
func NewResolver(client *http.Client, limit int) *Resolver {
	if limit == 0 {
		limit = -1
	}
	return &Resolver{client: client, limit: limit}
}

// OnRequest registers a callback invoked with every API URL before it is
// requested.
func (r *Resolver) OnRequest(fn func(apiURL string)) {
	r.onRequest = fn
}

// Resolve fetches metadata for every id concurrently. The result has the
// same length and order as ids, whatever the order responses arrive in.
//
// A failing item is never dropped: all per-item failures are returned
// joined, each as a *ResolveError, tagged with CodeMetadataResolution.
func (r *Resolver) Resolve(ctx context.Context, ids []string, session model.Session) ([]model.Metadata, error) {
	results := make([]model.Metadata, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(r.limit)

	for i, id := range ids {
		g.Go(func() error {
			video, err := r.resolveOne(ctx, id, session)
			if err != nil {
				errs[i] = &ResolveError{ID: id, Err: err}
				return nil
			}
			results[i] = video
			return nil
		})
	}
	g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, model.NewError(model.CodeMetadataResolution, err)
	}
	return results, nil
}

func (r *Resolver) resolveOne(ctx context.Context, id string, session model.Session) (model.Metadata, error) {
	apiURL := VideoURL(session, id)
	if r.onRequest != nil {
		r.onRequest(apiURL)
	}

	var video dto.Video
	if err := r.client.GetJSON(ctx, apiURL, http.BearerHeader(session.AccessToken), &video); err != nil {
		return model.Metadata{}, err
	}

	return ToMetadata(id, &video)
}

// VideoURL builds {apiBase}/videos/{id}?api-version={version}.
func VideoURL(session model.Session, id string) string {
	base := strings.TrimRight(session.APIGatewayURI, "/")
	return fmt.Sprintf("%s/videos/%s?api-version=%s",
		base, url.PathEscape(id), url.QueryEscape(session.APIGatewayVersion))
}

// ToMetadata normalizes an API response into a Metadata record.
func ToMetadata(id string, video *dto.Video) (model.Metadata, error) {
	playbackURL := video.HLSPlaybackURL()
	if playbackURL == "" {
		return model.Metadata{}, ErrNoPlaybackURL
	}

	date, err := PublishedDateToString(video.PublishedDate)
	if err != nil {
		return model.Metadata{}, err
	}

	units, err := DurationToUnits(video.MediaDuration())
	if err != nil {
		return model.Metadata{}, err
	}
	if units <= 0 {
		return model.Metadata{}, fmt.Errorf("zero media duration")
	}

	return model.Metadata{
		ID:          id,
		Title:       video.Name,
		Date:        date,
		TotalUnits:  units,
		PlaybackURL: playbackURL,
		PosterImage: video.MediumPosterURL(),
	}, nil
}
