// Package playlist writes a playlist of the videos downloaded into an
// output directory during one run.
//
// Supported formats are M3U (plain or extended with #EXTINF duration and
// title lines), PLS and WPL. Paths are stored relative to the playlist
// file, so the directory can be moved as a whole.
package playlist
