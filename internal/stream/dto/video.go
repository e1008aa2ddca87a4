package dto

// HLSMimeType marks the adaptive HTTP streaming variant of a playback URL.
const HLSMimeType = "application/vnd.apple.mpegurl"

// Video is the subset of the videos/{id} API response destreamer consumes.
type Video struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	PlaybackURLs  []PlaybackURL `json:"playbackUrls"`
	PosterImage   *PosterImage  `json:"posterImage"`
	PublishedDate string        `json:"publishedDate"`
	Media         *Media        `json:"media"`
}

// PlaybackURL is one streaming variant of a video.
type PlaybackURL struct {
	MimeType    string `json:"mimeType"`
	PlaybackURL string `json:"playbackUrl"`
}

// PosterImage holds the poster renditions.
type PosterImage struct {
	Medium *ImageRef `json:"medium"`
}

// ImageRef points at one poster rendition.
type ImageRef struct {
	URL string `json:"url"`
}

// Media holds the technical media properties.
type Media struct {
	// Duration is an ISO-8601 duration such as "PT1H2M3.5S".
	Duration string `json:"duration"`
}

// HLSPlaybackURL returns the first HLS playback URL, or "" if there is none.
func (v *Video) HLSPlaybackURL() string {
	for _, p := range v.PlaybackURLs {
		if p.MimeType == HLSMimeType && p.PlaybackURL != "" {
			return p.PlaybackURL
		}
	}
	return ""
}

// MediumPosterURL returns the medium poster URL, or "" if there is none.
func (v *Video) MediumPosterURL() string {
	if v.PosterImage == nil || v.PosterImage.Medium == nil {
		return ""
	}
	return v.PosterImage.Medium.URL
}

// MediaDuration returns the ISO-8601 media duration, or "" if missing.
func (v *Video) MediaDuration() string {
	if v.Media == nil {
		return ""
	}
	return v.Media.Duration
}
