// Package model defines the core data structures shared by the
// destreamer packages.
//
// # Session
//
// Session is the bearer token plus API gateway coordinates. It is passed
// explicitly from the session provider to every consumer:
//
//	session, err := provider.Obtain(ctx, seedURL)
//	if session.Valid(time.Now(), time.Minute) { ... }
//
// # Metadata and Job
//
// Metadata is the resolved description of one video. Job pairs a copy of
// it with a destination directory:
//
//	job := model.NewJob(0, video, "/videos")
//	job.SetOutput("Lecture 1 - 05-03-2021", "mkv")
//	fmt.Println(job.OutputPath) // /videos/Lecture 1 - 05-03-2021.mkv
//
// # Errors
//
// Fatal errors carry the process exit code:
//
//	err := model.Errorf(model.CodeInvalidVideoGUID, "bad url %q", u)
//	os.Exit(int(model.CodeOf(err)))
package model
