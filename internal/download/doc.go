// Package download provides the download orchestration for private
// streaming platform videos.
//
// # Orchestrator
//
// The Orchestrator drives a run:
//
//  1. Assign output directories to the requested URLs (round-robin)
//  2. Extract the video GUID of every URL
//  3. Obtain a session (token cache or interactive login)
//  4. Resolve metadata for all videos concurrently
//  5. For each video in order: refresh the session, pick a unique file
//     name, draw the poster and run the transcoder
//  6. Write playlists (optional)
//
// # Basic Usage
//
//	orch := download.NewOrchestrator(provider, resolver, transcode.NewFFmpeg("ffmpeg"),
//	    progress.NewBar(os.Stdout), download.Options{}, func(event download.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    })
//
//	if err := orch.Run(ctx, urls, []string{"videos"}); err != nil {
//	    os.Exit(int(model.CodeOf(err)))
//	}
//
// # Failures and Cleanup
//
// Jobs run strictly one after another. While a transcoder runs, the job's
// partial output file is held as a resource: a transcoder error or a
// cancelled context stops the progress indicator and removes the file
// (unless Options.NoCleanup is set). A transcoder error ends the whole run.
//
// # Simulation
//
// With Options.Simulate the run stops after metadata resolution and
// reports title, publish date and playback URL for every video. Nothing is
// written and no transcoder is started.
package download
