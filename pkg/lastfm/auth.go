package lastfm

import (
	"context"
	"fmt"
	"net/url"
)

// AuthService provides authentication operations for the Last.fm API.
type AuthService struct {
	client *Client
}

const authURLBase = "https://www.last.fm/api/auth/"

// WithPassword authenticates with a username and password
// (auth.getMobileSession) and stores the resulting session key.
//
// Any previous session key is dropped as soon as the identity is set, so on
// failure the client is left unauthenticated.
//
// Example:
//
//	session, err := client.Auth().WithPassword(ctx, "user", "pass")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Store session.Key for future use
func (a *AuthService) WithPassword(ctx context.Context, username, password string) (*Session, error) {
	a.client.creds.SetUserCredentials(username, password)
	return a.authenticate(ctx, OpAuthMobileSession)
}

// WithToken exchanges a token the user has authorized on the Last.fm website
// (auth.getSession) and stores the resulting session key.
//
// Example:
//
//	token, err := client.Auth().GetToken(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Please visit:", client.Auth().GetAuthURL(token))
//	// ... wait for the user ...
//	session, err := client.Auth().WithToken(ctx, token)
func (a *AuthService) WithToken(ctx context.Context, token string) (*Session, error) {
	a.client.creds.SetUserToken(token)
	return a.authenticate(ctx, OpAuthWebSession)
}

// WithSessionKey resumes a session saved from an earlier authentication.
// The key is not validated; a stale key surfaces as an error on the next
// authenticated call.
func (a *AuthService) WithSessionKey(key string) {
	a.client.creds.SetSessionKey(key)
}

func (a *AuthService) authenticate(ctx context.Context, op Operation) (*Session, error) {
	params, err := a.client.creds.AuthRequestParams()
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	body, err := a.client.send(ctx, op, params)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	session, err := decodeSession(body)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	a.client.creds.SetSessionKey(session.Key)
	a.client.logDebugf("lastfm: authenticated as %q", session.Username)

	return session, nil
}

// GetToken requests an authentication token from Last.fm (auth.getToken).
//
// This is the first step of the web authentication flow. After obtaining a
// token, the user must authorize it by visiting the URL returned by
// GetAuthURL, then the token is exchanged with WithToken.
func (a *AuthService) GetToken(ctx context.Context) (string, error) {
	params := map[string]string{"api_key": a.client.creds.APIKey()}

	body, err := a.client.send(ctx, OpAuthToken, params)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	token, err := decodeToken(body)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// GetAuthURL returns the URL where users authorize the token.
func (a *AuthService) GetAuthURL(token string) string {
	q := url.Values{}
	q.Set("api_key", a.client.creds.APIKey())
	q.Set("token", token)
	return authURLBase + "?" + q.Encode()
}
