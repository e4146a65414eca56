package http

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// =============================================================================
// AUTHENTICATION STRATEGIES
// =============================================================================

// AuthConfig represents authentication configuration.
type AuthConfig interface {
	Apply(req *http.Request) error
}

// NoAuth represents no authentication.
type NoAuth struct{}

func (a NoAuth) Apply(req *http.Request) error { return nil }

// BearerToken uses a fixed Bearer token.
type BearerToken struct {
	Token string
}

// Apply adds Bearer token header to the request.
func (a BearerToken) Apply(req *http.Request) error {
	if a.Token == "" {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// TokenSourceAuth takes its bearer token from an oauth2.TokenSource.
// Wrap the source in oauth2.ReuseTokenSource so tokens are cached until
// they expire.
type TokenSourceAuth struct {
	Source oauth2.TokenSource
}

// Apply fetches a valid token and sets the Authorization header.
func (a TokenSourceAuth) Apply(req *http.Request) error {
	if a.Source == nil {
		return fmt.Errorf("no token source configured")
	}
	token, err := a.Source.Token()
	if err != nil {
		return fmt.Errorf("fetch access token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}
