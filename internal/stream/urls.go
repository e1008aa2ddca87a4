package stream

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/handiism/destreamer/internal/model"
)

// VideoGUIDs extracts the video GUID (the last path segment) from each
// video URL, preserving order.
//
// Example:
//
//	VideoGUIDs([]string{"https://web.microsoftstream.com/video/6711baa5-c56e-4782-82fb-c2ab7b1f1c31"})
//	// []string{"6711baa5-c56e-4782-82fb-c2ab7b1f1c31"}
func VideoGUIDs(videoURLs []string) ([]string, error) {
	guids := make([]string, 0, len(videoURLs))
	for _, raw := range videoURLs {
		guid, err := LastPathSegment(raw)
		if err != nil {
			return nil, model.NewError(model.CodeInvalidVideoGUID, err)
		}
		guids = append(guids, guid)
	}
	return guids, nil
}

// LastPathSegment returns the last segment of the absolute URL raw.
// Trailing slashes, the query and the fragment are ignored.
func LastPathSegment(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid video URL %q", raw)
	}

	segment := path.Base(strings.TrimRight(u.Path, "/"))
	if segment == "" || segment == "." || segment == "/" {
		return "", fmt.Errorf("no video id in %q", raw)
	}
	return segment, nil
}
