package download

import (
	"os"
	"regexp"
	"strings"

	"github.com/handiism/destreamer/internal/model"
)

var urlSeparators = regexp.MustCompile(`[\r\n,]+`)

// ParseVideoURLs splits input on newlines and commas, dropping blanks.
func ParseVideoURLs(input string) []string {
	var urls []string
	for _, part := range urlSeparators.Split(input, -1) {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

// ReadURLFile reads one video URL per line from path.
func ReadURLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewError(model.CodeInvalidInputURLs, err)
	}
	urls := ParseVideoURLs(string(data))
	if len(urls) == 0 {
		return nil, model.Errorf(model.CodeInvalidInputURLs, "no video URLs in %s", path)
	}
	return urls, nil
}

// AssignDirectories returns the output directory of each of n jobs: job i
// goes to dirs[i mod len(dirs)].
//
// Supplying more than one directory but more directories than jobs is an
// error, as is supplying none.
func AssignDirectories(n int, dirs []string) ([]string, error) {
	if len(dirs) == 0 {
		return nil, model.Errorf(model.CodeInvalidOutputDir, "no output directory given")
	}
	if len(dirs) > 1 && len(dirs) > n {
		return nil, model.Errorf(model.CodeOutDirsURLsMismatch,
			"%d output directories given for %d video URLs", len(dirs), n)
	}

	assigned := make([]string, n)
	for i := range assigned {
		assigned[i] = dirs[i%len(dirs)]
	}
	return assigned, nil
}
