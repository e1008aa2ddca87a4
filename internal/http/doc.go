// Package http provides the HTTP client used for the video platform API
// and poster downloads.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Per-request authorization headers
//   - JSON decoding with status checks
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(60 * time.Second)
//
//	// Fetch a JSON document with a bearer token
//	var video dto.Video
//	err := client.GetJSON(ctx, apiURL, http.BearerHeader(token), &video)
//
//	// Download raw bytes (poster images)
//	data, err := client.Get(ctx, posterURL, http.BearerHeader(token))
//
// # Errors
//
// Non-200 responses are reported as *StatusError, whose Unauthorized
// method tells an expired or rejected token apart from other failures.
package http
