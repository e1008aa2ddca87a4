// Package transcode runs the external transcoder that copies a remote
// adaptive stream into a local container file.
//
// A Process reports progress as a stream of events ending in exactly one
// success or error event. Timemarks are converted to fractional minutes,
// the same unit the metadata resolver uses for total durations.
package transcode
