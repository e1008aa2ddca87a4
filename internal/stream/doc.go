// Package stream talks to the video platform API and normalizes its
// responses.
//
// The package handles three concerns:
//
//  1. Extracting video GUIDs from video URLs
//  2. Resolving metadata for many videos concurrently
//  3. Normalizing publish dates and ISO-8601 durations
//
// # Metadata Resolution
//
//	resolver := stream.NewResolver(httpClient, -1)
//	videos, err := resolver.Resolve(ctx, guids, session)
//	if err != nil {
//	    // every failed video is reported as a *stream.ResolveError
//	}
//
// Results keep the order of the requested ids.
//
// # Units
//
// Durations are expressed in fractional minutes, the common scale of the
// resolved media duration and the transcoder's reported timemark:
//
//	stream.DurationToUnits("PT1H2M30.2S") // 62 + 31/60
package stream
