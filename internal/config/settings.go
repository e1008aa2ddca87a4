package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDirectory string `json:"output_directory"`
	OutputExtension string `json:"output_extension"`
	NoCleanup       bool   `json:"no_cleanup"`

	// External tools
	FFmpegPath  string `json:"ffmpeg_path"`
	BrowserPath string `json:"browser_path"`
	HideBrowser bool   `json:"hide_browser"`

	// Login / session settings
	LoginTimeout            float64 `json:"login_timeout"`             // seconds
	SessionRetrieveAttempts int     `json:"session_retrieve_attempts"` //
	SessionRetrieveCooldown float64 `json:"session_retrieve_cooldown"` // seconds
	SessionExpiryMargin     float64 `json:"session_expiry_margin"`     // seconds
	SessionFallbackTTL      float64 `json:"session_fallback_ttl"`      // seconds, for non-JWT tokens
	SessionMaxReuse         int     `json:"session_max_reuse"`         // 0 = unlimited
	SuppressLoginDialog     bool    `json:"suppress_login_dialog"`

	// Token cache
	TokenCachePath string `json:"token_cache_path"`
	RedisURL       string `json:"redis_url"`
	RedisKey       string `json:"redis_key"`

	// Metadata API
	HTTPTimeout           float64 `json:"http_timeout"` // seconds
	MaxConcurrentMetadata int     `json:"max_concurrent_metadata"`

	// Thumbnails
	NoThumbnails   bool `json:"no_thumbnails"`
	ThumbnailWidth int  `json:"thumbnail_width"` // 0 = a third of the terminal

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl
	M3UExtended    bool   `json:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	return &Settings{
		OutputDirectory: "videos",
		OutputExtension: "mkv",
		NoCleanup:       false,

		FFmpegPath:  "ffmpeg",
		BrowserPath: "",
		HideBrowser: false,

		LoginTimeout:            150,
		SessionRetrieveAttempts: 5,
		SessionRetrieveCooldown: 3,
		SessionExpiryMargin:     300,
		SessionFallbackTTL:      3600,
		SessionMaxReuse:         0,
		SuppressLoginDialog:     false,

		TokenCachePath: filepath.Join(cacheDir, "destreamer", "token_cache.json"),
		RedisURL:       "",
		RedisKey:       "destreamer:session",

		HTTPTimeout:           60,
		MaxConcurrentMetadata: -1,

		NoThumbnails:   false,
		ThumbnailWidth: 0,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from DESTREAMER_* environment variables.
func (s *Settings) ApplyEnv() {
	s.FFmpegPath = getEnv("DESTREAMER_FFMPEG", s.FFmpegPath)
	s.BrowserPath = getEnv("DESTREAMER_CHROME", s.BrowserPath)
	s.TokenCachePath = getEnv("DESTREAMER_TOKEN_CACHE", s.TokenCachePath)
	s.RedisURL = getEnv("DESTREAMER_REDIS_URL", s.RedisURL)
	s.OutputDirectory = getEnv("DESTREAMER_OUTPUT", s.OutputDirectory)
	s.HideBrowser = getEnvBool("DESTREAMER_HIDE_BROWSER", s.HideBrowser)
}

// LoginTimeoutDuration returns LoginTimeout as a time.Duration.
func (s *Settings) LoginTimeoutDuration() time.Duration {
	return seconds(s.LoginTimeout)
}

// SessionRetrieveCooldownDuration returns SessionRetrieveCooldown as a time.Duration.
func (s *Settings) SessionRetrieveCooldownDuration() time.Duration {
	return seconds(s.SessionRetrieveCooldown)
}

// SessionExpiryMarginDuration returns SessionExpiryMargin as a time.Duration.
func (s *Settings) SessionExpiryMarginDuration() time.Duration {
	return seconds(s.SessionExpiryMargin)
}

// SessionFallbackTTLDuration returns SessionFallbackTTL as a time.Duration.
func (s *Settings) SessionFallbackTTLDuration() time.Duration {
	return seconds(s.SessionFallbackTTL)
}

// HTTPTimeoutDuration returns HTTPTimeout as a time.Duration.
func (s *Settings) HTTPTimeoutDuration() time.Duration {
	return seconds(s.HTTPTimeout)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
