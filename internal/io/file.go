// Package ioutils provides file system utilities for destreamer.
//
// This package contains functions for:
//   - Atomic file writing
//   - Filename sanitization
//   - Unique output names
//   - Directory creation and idempotent removal
package ioutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxNameBytes is the longest file name most file systems accept.
const MaxNameBytes = 255

var (
	invalidChars    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots    = regexp.MustCompile(`\.+$`)
	multipleSpaces  = regexp.MustCompile(`\s+`)
	reservedWinName = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)
)

// WriteFileAtomic writes data to path so that a concurrent reader observes
// either the previous content or the new content, never a partial write.
//
// The data is written to a temporary file in the same directory, synced,
// and renamed over path. Parent directories are created as needed.
//
// Example:
//
//	err := WriteFileAtomic("/home/me/.cache/destreamer/token_cache.json", data, 0600)
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// This function ensures filenames are valid across different operating systems,
// particularly Windows which has the most restrictive naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace → removed
//   - Reserved Windows device names (CON, NUL, COM1...) → prefixed with underscore
//
// Example:
//
//	SanitizeFileName("Lecture: Part 1/2")  // Returns "Lecture_ Part 1_2"
//	SanitizeFileName("Intro...")           // Returns "Intro"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multipleSpaces.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if reservedWinName.MatchString(name) {
		name = "_" + name
	}

	return name
}

// TruncateName shortens name to at most max bytes without splitting a
// UTF-8 sequence. Trailing spaces and dots left by the cut are removed.
func TruncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	if max <= 0 {
		return ""
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return strings.TrimRight(name[:cut], " .")
}

// UniqueTitle returns title, or title with a " - N" suffix, such that
// dir/<result>.ext does not exist yet.
//
// Example:
//
//	// "Lecture.mkv" and "Lecture - 1.mkv" already exist in dir
//	UniqueTitle("Lecture", dir, "mkv") // Returns "Lecture - 2"
func UniqueTitle(title, dir, ext string) string {
	candidate := title
	for k := 1; exists(filepath.Join(dir, candidate+"."+ext)); k++ {
		candidate = fmt.Sprintf("%s - %d", title, k)
	}
	return candidate
}

// RemoveIfExists deletes path. A missing file is not an error, which makes
// repeated calls safe.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
