package auth

import (
	"context"
	"errors"

	"github.com/handiism/destreamer/internal/model"
)

// ErrSessionNotReady is returned by AuthenticatedPage.SessionInfo while the
// page has not initialised its session object yet.
var ErrSessionNotReady = errors.New("session info not ready")

// LoginRequest describes one interactive login.
type LoginRequest struct {
	// SeedURL is the page opened to start the login flow.
	SeedURL string

	// VideoID identifies the page the flow ends on.
	VideoID string

	// Credentials are the optional login data lines: email, then username
	// and password for automated login.
	Credentials []string

	// SuppressDialog dismisses the "stay signed in?" prompt.
	SuppressDialog bool
}

// Authenticator performs the interactive login handshake.
type Authenticator interface {
	Login(ctx context.Context, req LoginRequest) (AuthenticatedPage, error)
}

// AuthenticatedPage is the logged-in context the session is read from.
type AuthenticatedPage interface {
	// SessionInfo reads the session. It returns ErrSessionNotReady (possibly
	// wrapped) when the caller should retry later.
	SessionInfo(ctx context.Context) (model.Session, error)

	// Close releases the browser.
	Close() error
}
