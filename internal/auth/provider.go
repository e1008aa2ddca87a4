package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/handiism/destreamer/internal/model"
	"github.com/handiism/destreamer/internal/stream"
)

// ProviderConfig holds the session provider options.
type ProviderConfig struct {
	// Credentials are the optional login data lines.
	Credentials []string

	// SuppressDialog dismisses the post-login confirmation dialog.
	SuppressDialog bool

	// Attempts bounds the session info reads after login.
	Attempts int

	// Cooldown is the fixed wait between session info reads.
	Cooldown time.Duration

	// ExpiryMargin is kept in reserve when judging a session valid.
	ExpiryMargin time.Duration

	// FallbackTTL is the validity given to tokens without an exp claim.
	FallbackTTL time.Duration

	// MaxReuse is the number of jobs one session may serve before a fresh
	// login is forced. Zero means unlimited.
	MaxReuse int
}

// Provider supplies a valid Session, from the token cache when possible
// and from an interactive login otherwise.
type Provider struct {
	cache      TokenCache
	auth       Authenticator
	cfg        ProviderConfig
	onProgress func(model.ProgressEvent)
	now        func() time.Time

	current  model.Session
	uses     int
	rejected string
}

// NewProvider creates a Provider.
func NewProvider(cache TokenCache, authenticator Authenticator, cfg ProviderConfig, onProgress func(model.ProgressEvent)) *Provider {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &Provider{
		cache:      cache,
		auth:       authenticator,
		cfg:        cfg,
		onProgress: onProgress,
		now:        time.Now,
	}
}

// Obtain returns a valid session for a download job. A cached, unexpired
// session is returned without any browser interaction; otherwise an
// interactive login is run starting at seedURL and the result is written
// back to the cache. Each call counts toward MaxReuse.
func (p *Provider) Obtain(ctx context.Context, seedURL string) (model.Session, error) {
	return p.obtain(ctx, seedURL, true)
}

// Lookup returns a valid session like Obtain, for requests that are not
// download jobs. It does not count toward MaxReuse.
func (p *Provider) Lookup(ctx context.Context, seedURL string) (model.Session, error) {
	return p.obtain(ctx, seedURL, false)
}

func (p *Provider) obtain(ctx context.Context, seedURL string, counted bool) (model.Session, error) {
	now := p.now()

	if !p.reuseExhausted() {
		if session, ok := p.cache.Read(ctx); ok && session.AccessToken != p.rejected {
			p.use(session, counted)
			return session, nil
		}
		// The cache may be unwritable; keep serving the session we hold.
		if p.current.Valid(now, p.cfg.ExpiryMargin) {
			p.use(p.current, counted)
			return p.current, nil
		}
	} else {
		p.progress(fmt.Sprintf("Session served %d jobs, logging in again.", p.uses), model.LevelVerbose)
	}

	session, err := p.login(ctx, seedURL)
	if err != nil {
		return model.Session{}, err
	}

	p.current = session
	p.uses = 0
	if counted {
		p.uses = 1
	}
	return session, nil
}

// Invalidate drops the current session after the API rejected it. The
// rejected token is not served from the cache again.
func (p *Provider) Invalidate() {
	p.rejected = p.current.AccessToken
	p.current = model.Session{}
	p.uses = 0
}

func (p *Provider) reuseExhausted() bool {
	return p.cfg.MaxReuse > 0 && !p.current.IsZero() && p.uses >= p.cfg.MaxReuse
}

func (p *Provider) use(session model.Session, counted bool) {
	if session.AccessToken != p.current.AccessToken {
		p.current = session
		p.uses = 0
	}
	if counted {
		p.uses++
	}
}

func (p *Provider) login(ctx context.Context, seedURL string) (model.Session, error) {
	videoID, err := VideoID(seedURL)
	if err != nil {
		return model.Session{}, err
	}

	p.progress("Fetching new access token.", model.LevelWarning)
	p.progress("Launching browser to perform the OpenID Connect dance...", model.LevelInfo)

	page, err := p.auth.Login(ctx, LoginRequest{
		SeedURL:        seedURL,
		VideoID:        videoID,
		Credentials:    p.cfg.Credentials,
		SuppressDialog: p.cfg.SuppressDialog,
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("login: %w", err)
	}
	defer page.Close()

	p.progress("We are logged in.", model.LevelInfo)

	session, err := p.retrieveSession(ctx, page)
	if err != nil {
		return model.Session{}, err
	}

	session.ExpiresAt = TokenExpiry(session.AccessToken, p.now().Add(p.cfg.FallbackTTL))

	if err := p.cache.Write(ctx, session); err != nil {
		p.progress(fmt.Sprintf("Could not write token cache: %v", err), model.LevelWarning)
	} else {
		p.progress("Wrote access token to token cache.", model.LevelInfo)
	}

	return session, nil
}

func (p *Provider) retrieveSession(ctx context.Context, page AuthenticatedPage) (model.Session, error) {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.Attempts; attempt++ {
		session, err := page.SessionInfo(ctx)
		if err == nil {
			return session, nil
		}
		lastErr = err
		if !errors.Is(err, ErrSessionNotReady) || attempt == p.cfg.Attempts {
			break
		}

		p.progress(fmt.Sprintf("Session info not ready (attempt %d/%d), retrying...", attempt, p.cfg.Attempts), model.LevelVerbose)
		wait(ctx, p.cfg.Cooldown)
	}

	return model.Session{}, model.NewError(model.CodeNoSessionInfo, fmt.Errorf("retrieve session info: %w", lastErr))
}

func (p *Provider) progress(msg string, level model.ProgressLevel) {
	if p.onProgress != nil {
		p.onProgress(model.ProgressEvent{Message: msg, Level: level})
	}
}

// VideoID returns the resource identifier that marks the authenticated
// page: the last path segment of seedURL, ignoring trailing slashes, the
// query and the fragment.
func VideoID(seedURL string) (string, error) {
	id, err := stream.LastPathSegment(seedURL)
	if err != nil {
		return "", model.NewError(model.CodeInvalidVideoID, err)
	}
	return id, nil
}

func wait(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
