package platform

import (
	"errors"

	"github.com/handiism/destreamer/internal/model"
)

// Locator resolves an external executable.
type Locator interface {
	LookPath() (string, error)
}

// CheckElevation refuses to run with administrator or root rights: the
// browser profile and token cache would end up owned by the wrong user.
func CheckElevation(elevated bool) error {
	if elevated {
		return model.NewError(model.CodeElevatedShell,
			errors.New("refusing to run with elevated privileges; use a regular shell"))
	}
	return nil
}

// CheckFFmpeg verifies that the transcoder executable can be found and
// returns its resolved path.
func CheckFFmpeg(l Locator) (string, error) {
	path, err := l.LookPath()
	if err != nil {
		return "", model.NewError(model.CodeMissingFFmpeg, err)
	}
	return path, nil
}
