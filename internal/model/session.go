package model

import "time"

// Session is a bearer credential together with the API gateway coordinates
// it was issued for.
//
// A Session is never mutated once obtained. When it expires or is rejected
// a new Session replaces it.
type Session struct {
	// AccessToken is sent as "Authorization: Bearer <token>".
	AccessToken string `json:"access_token"`

	// APIGatewayURI is the base URI of the video API, e.g.
	// "https://euwe-1.api.microsoftstream.com/api/".
	APIGatewayURI string `json:"api_gateway_uri"`

	// APIGatewayVersion is passed as the api-version query parameter.
	APIGatewayVersion string `json:"api_gateway_version"`

	// ExpiresAt is the end of the validity window. Zero means unknown.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsZero reports whether the session carries no token.
func (s Session) IsZero() bool {
	return s.AccessToken == ""
}

// Valid reports whether the session is usable at now, keeping margin in
// reserve so that a token does not expire in the middle of a request.
//
// A session without a known expiry is never valid.
func (s Session) Valid(now time.Time, margin time.Duration) bool {
	if s.IsZero() || s.APIGatewayURI == "" || s.ExpiresAt.IsZero() {
		return false
	}
	return now.Add(margin).Before(s.ExpiresAt)
}
