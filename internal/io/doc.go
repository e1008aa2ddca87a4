// Package ioutils provides file system and image utilities.
//
// This package contains functions for:
//   - Atomic file writing (token cache, playlists)
//   - Filename sanitization for cross-platform compatibility
//   - Unique output file names
//   - Directory creation and idempotent file removal
//   - Poster decoding, scaling and inline terminal rendering
//
// # File Operations
//
//	// Write without exposing partial content to readers
//	err := ioutils.WriteFileAtomic("/path/to/cache.json", data, 0600)
//
//	// Remove a partial download; missing files are fine
//	err := ioutils.RemoveIfExists("/videos/Lecture.mkv")
//
// # Naming
//
//	title := ioutils.SanitizeFileName("Week 1: Intro") + " - " + date
//	title = ioutils.UniqueTitle(title, "/videos", "mkv")
//
// # Thumbnails
//
//	r := ioutils.NewThumbnailRenderer(httpClient, os.Stdout, 40)
//	err := r.Draw(ctx, video.PosterImage, session.AccessToken)
package ioutils
