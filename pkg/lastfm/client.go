package lastfm

import (
	"fmt"
	"net/http"
	"time"
)

// Config holds client configuration.
type Config struct {
	APIKey     string // Required: Last.fm API key
	APISecret  string // Required: Last.fm API secret
	SessionKey string // Optional: Session key saved from an earlier authentication
	HTTPClient Doer   // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL    string // Optional: Endpoint URL (defaults to Last.fm API, used for testing)
	Logger     Logger // Optional: Logger interface for debug logging
	Digest     Digest // Optional: Signature hash (defaults to MD5)
	UserAgent  string // Optional: User-Agent header
}

// Doer sends a single HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Last.fm API operations.
//
// A Client owns its credentials and is meant to be used from a single
// goroutine; callers sharing one must serialize access themselves.
type Client struct {
	creds      *Credentials
	httpClient Doer
	baseURL    string
	userAgent  string
	logger     Logger
	now        func() time.Time

	auth     *AuthService
	scrobble *ScrobbleService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint. The format
	// parameter travels in the query string and is not signed.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/?format=json"

	defaultUserAgent = "fmscrobble/1.0"
)

// NewClient creates a new Last.fm API client.
//
// Returns an error if required configuration (APIKey, APISecret) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	if cfg.APISecret == "" {
		return nil, fmt.Errorf("%w: APISecret is required", ErrInvalidConfig)
	}

	var httpClient Doer = http.DefaultClient
	if cfg.HTTPClient != nil {
		httpClient = cfg.HTTPClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	creds := NewCredentials(cfg.APIKey, cfg.APISecret)
	if cfg.Digest != nil {
		creds.WithDigest(cfg.Digest)
	}
	creds.SetSessionKey(cfg.SessionKey)

	c := &Client{
		creds:      creds,
		httpClient: httpClient,
		baseURL:    baseURL,
		userAgent:  userAgent,
		logger:     cfg.Logger,
		now:        time.Now,
	}

	c.auth = &AuthService{client: c}
	c.scrobble = &ScrobbleService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// Scrobble returns the scrobbling service.
func (c *Client) Scrobble() *ScrobbleService {
	return c.scrobble
}

// Credentials returns the credential store owned by the client.
func (c *Client) Credentials() *Credentials {
	return c.creds
}

// SetSessionKey sets the session key for authenticated requests.
func (c *Client) SetSessionKey(key string) {
	c.creds.SetSessionKey(key)
}

// SessionKey returns the current session key, or "" if unauthenticated.
func (c *Client) SessionKey() string {
	key, _ := c.creds.SessionKey()
	return key
}

// IsAuthenticated reports whether the client holds a session key.
func (c *Client) IsAuthenticated() bool {
	return c.creds.IsAuthenticated()
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
