// Package progress renders per-job transcoding progress in the terminal.
package progress
