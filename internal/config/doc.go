// Package config provides configuration management for destreamer.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - DESTREAMER_* environment overrides
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Videos are written to ./videos as .mkv
//	// The session is cached in the user cache directory
//	// Logins time out after 150 seconds
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	settings.ApplyEnv()
//
// # Saving Settings
//
//	settings.OutputDirectory = "/lectures"
//	err := settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Output directory, container extension and cleanup policy
//   - ffmpeg and browser locations
//   - Login timeout and session retrieval retries
//   - Token cache location (file or Redis)
//   - Metadata request concurrency
//   - Thumbnails and playlist generation
package config
