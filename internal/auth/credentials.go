package auth

import (
	"os"
	"regexp"

	"github.com/handiism/destreamer/internal/model"
)

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// LoadCredentials reads the login data file: one value per line (email,
// then optionally username and password). Empty lines are dropped.
func LoadCredentials(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, model.NewError(model.CodeNoLoginDataFile, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewError(model.CodeReadLoginDataFail, err)
	}

	var lines []string
	for _, line := range lineBreaks.Split(string(data), -1) {
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, model.Errorf(model.CodeReadLoginDataFail, "login data file %s is empty", path)
	}

	return lines, nil
}
