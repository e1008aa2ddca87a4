package download

import (
	"sync"

	ioutils "github.com/handiism/destreamer/internal/io"
)

// activeJob is the resource held while a transcoder runs: the partial
// output file and the progress indicator.
//
// Cleanup stops the indicator and removes the output file (unless keep is
// set). It runs at most once, and not at all after Release.
type activeJob struct {
	path      string
	indicator Indicator
	keep      bool

	mu   sync.Mutex
	done bool
	err  error
}

func newActiveJob(path string, indicator Indicator, keep bool) *activeJob {
	return &activeJob{path: path, indicator: indicator, keep: keep}
}

// Cleanup releases the job after a failure or interruption.
func (a *activeJob) Cleanup() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return a.err
	}
	a.done = true

	a.indicator.Stop()
	if !a.keep {
		a.err = ioutils.RemoveIfExists(a.path)
	}
	return a.err
}

// Release marks the job as finished so that Cleanup does nothing.
func (a *activeJob) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.done = true
}
