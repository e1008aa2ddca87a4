package auth

import (
	"context"
	"encoding/json"
	"os"
	"time"

	ioutils "github.com/handiism/destreamer/internal/io"
	"github.com/handiism/destreamer/internal/model"
)

// TokenCache persists a Session across process runs.
//
// Read fails soft: a missing, malformed or stale record is reported as
// absent, never as an error. Write replaces the previous record so that a
// concurrent reader sees either the old or the new one.
type TokenCache interface {
	Read(ctx context.Context) (model.Session, bool)
	Write(ctx context.Context, session model.Session) error
}

// FileCache stores the session as JSON in a single file.
type FileCache struct {
	path   string
	margin time.Duration
	now    func() time.Time
}

// NewFileCache creates a file backed cache. Sessions expiring within
// margin are treated as stale.
func NewFileCache(path string, margin time.Duration) *FileCache {
	return &FileCache{path: path, margin: margin, now: time.Now}
}

// Path returns the cache file location.
func (c *FileCache) Path() string { return c.path }

func (c *FileCache) Read(_ context.Context) (model.Session, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return model.Session{}, false
	}
	return decodeSession(data, c.now(), c.margin)
}

func (c *FileCache) Write(_ context.Context, session model.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return ioutils.WriteFileAtomic(c.path, data, 0600)
}

func decodeSession(data []byte, now time.Time, margin time.Duration) (model.Session, bool) {
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return model.Session{}, false
	}
	if !session.Valid(now, margin) {
		return model.Session{}, false
	}
	return session, true
}
