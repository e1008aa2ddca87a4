// Package platform holds the start-up checks that depend on the host: the
// privilege level of the process and the presence of ffmpeg.
package platform
