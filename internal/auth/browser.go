package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/handiism/destreamer/internal/model"
)

const (
	emailSelector    = `input[type="email"]`
	textSelector     = `input[type="text"]`
	passwordSelector = `input[type="password"]`
	submitSelector   = `input[type="submit"]`
	dialogSelector   = `input[id="idBtn_Back"]`

	sessionInfoScript = `({
		AccessToken: sessionInfo.AccessToken,
		ApiGatewayUri: sessionInfo.ApiGatewayUri,
		ApiGatewayVersion: sessionInfo.ApiGatewayVersion
	})`

	dialogTimeout = 10 * time.Second
	pollInterval  = 500 * time.Millisecond
)

// BrowserAuthenticator drives a Chromium instance through the OpenID
// Connect login of the video platform.
type BrowserAuthenticator struct {
	execPath string
	headless bool
	timeout  time.Duration
}

// NewBrowserAuthenticator creates an authenticator. execPath may be empty
// to let chromedp find a browser; timeout bounds the wait for the video
// page after login.
func NewBrowserAuthenticator(execPath string, headless bool, timeout time.Duration) *BrowserAuthenticator {
	return &BrowserAuthenticator{execPath: execPath, headless: headless, timeout: timeout}
}

// Login opens the seed URL, fills in the credentials if any, and waits
// until a page whose URL contains the video id appears.
func (a *BrowserAuthenticator) Login(ctx context.Context, req LoginRequest) (AuthenticatedPage, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", a.headless),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if a.execPath != "" {
		opts = append(opts, chromedp.ExecPath(a.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	page := &browserPage{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(req.SeedURL),
		chromedp.WaitVisible(emailSelector, chromedp.ByQuery),
	)
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("open login page: %w", err)
	}

	if len(req.Credentials) > 0 {
		if err := a.fillCredentials(browserCtx, req); err != nil {
			page.Close()
			return nil, fmt.Errorf("automated login: %w", err)
		}
	}

	if err := a.waitForTarget(browserCtx, req.VideoID); err != nil {
		page.Close()
		return nil, err
	}

	return page, nil
}

func (a *BrowserAuthenticator) fillCredentials(ctx context.Context, req LoginRequest) error {
	creds := req.Credentials
	actions := []chromedp.Action{
		chromedp.SendKeys(emailSelector, creds[0], chromedp.ByQuery),
		chromedp.Click(submitSelector, chromedp.ByQuery),
	}
	if len(creds) >= 3 {
		actions = append(actions,
			chromedp.WaitVisible(textSelector, chromedp.ByQuery),
			chromedp.SendKeys(textSelector, creds[1], chromedp.ByQuery),
			chromedp.WaitVisible(passwordSelector, chromedp.ByQuery),
			chromedp.SendKeys(passwordSelector, creds[2], chromedp.ByQuery),
			chromedp.Click(submitSelector, chromedp.ByQuery),
		)
	}
	if err := chromedp.Run(ctx, actions...); err != nil {
		return err
	}

	if req.SuppressDialog {
		// The prompt does not always appear.
		dctx, cancel := context.WithTimeout(ctx, dialogTimeout)
		defer cancel()
		_ = chromedp.Run(dctx, chromedp.Click(dialogSelector, chromedp.ByQuery))
	}
	return nil
}

func (a *BrowserAuthenticator) waitForTarget(ctx context.Context, videoID string) error {
	tctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var location string
		if err := chromedp.Run(tctx, chromedp.Location(&location)); err == nil && strings.Contains(location, videoID) {
			return nil
		}

		select {
		case <-tctx.Done():
			return fmt.Errorf("no page matching %q within %s", videoID, a.timeout)
		case <-ticker.C:
		}
	}
}

type rawSessionInfo struct {
	AccessToken       string `json:"AccessToken"`
	APIGatewayURI     string `json:"ApiGatewayUri"`
	APIGatewayVersion string `json:"ApiGatewayVersion"`
}

type browserPage struct {
	ctx    context.Context
	cancel func()
}

func (p *browserPage) SessionInfo(_ context.Context) (model.Session, error) {
	var raw rawSessionInfo
	if err := chromedp.Run(p.ctx, chromedp.Evaluate(sessionInfoScript, &raw)); err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", ErrSessionNotReady, err)
	}
	if raw.AccessToken == "" || raw.APIGatewayURI == "" {
		return model.Session{}, ErrSessionNotReady
	}

	return model.Session{
		AccessToken:       raw.AccessToken,
		APIGatewayURI:     raw.APIGatewayURI,
		APIGatewayVersion: raw.APIGatewayVersion,
	}, nil
}

// Close shuts the browser down.
func (p *browserPage) Close() error {
	p.cancel()
	return nil
}
