package scrobbler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jfmyers9/fmscrobble/internal/journal"
	"github.com/jfmyers9/fmscrobble/pkg/lastfm"
	"github.com/rs/zerolog"
)

// Config holds the Last.fm settings the scrobbler needs
type Config struct {
	APIKey     string
	APISecret  string
	SessionKey string
	BaseURL    string
	HTTPClient lastfm.Doer
}

// Client wraps the Last.fm API client with logging and an optional
// submission journal
type Client struct {
	client  *lastfm.Client
	journal *journal.Journal
	logger  zerolog.Logger
}

// Scrobble represents a single track play to submit
type Scrobble struct {
	Artist    string
	Track     string
	Album     string
	Timestamp time.Time // zero means now
	Duration  time.Duration
}

// debugLogger routes SDK debug output to zerolog
type debugLogger struct {
	logger zerolog.Logger
}

func (l debugLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// New creates a new Last.fm client
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	logger = logger.With().Str("component", "scrobbler").Logger()

	client, err := lastfm.NewClient(lastfm.Config{
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
		SessionKey: cfg.SessionKey,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
		Logger:     debugLogger{logger: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lastfm client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// WithJournal records every submission outcome in j
func (c *Client) WithJournal(j *journal.Journal) *Client {
	c.journal = j
	return c
}

// Login authenticates with a username and password
// Returns the session key that should be stored for future use
func (c *Client) Login(ctx context.Context, username, password string) (sessionKey string, err error) {
	session, err := c.client.Auth().WithPassword(ctx, username, password)
	if err != nil {
		return "", err
	}

	c.logger.Info().Str("user", session.Username).Msg("Authenticated with password")
	return session.Key, nil
}

// AuthenticateWithToken initiates the web authentication flow
// Returns the auth URL that the user should visit
func (c *Client) AuthenticateWithToken(ctx context.Context) (token string, authURL string, err error) {
	token, err = c.client.Auth().GetToken(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to get auth token: %w", err)
	}

	return token, c.client.Auth().GetAuthURL(token), nil
}

// GetSession completes the web authentication flow after user authorization
// Returns the session key that should be stored for future use
func (c *Client) GetSession(ctx context.Context, token string) (sessionKey string, err error) {
	session, err := c.client.Auth().WithToken(ctx, token)
	if err != nil {
		return "", err
	}

	c.logger.Info().Str("user", session.Username).Msg("Authenticated with token")
	return session.Key, nil
}

// Resume restores a session key saved from an earlier authentication
func (c *Client) Resume(sessionKey string) {
	c.client.Auth().WithSessionKey(sessionKey)
}

// UpdateNowPlaying sends the currently playing track
func (c *Client) UpdateNowPlaying(ctx context.Context, s Scrobble) error {
	resp, err := c.client.Scrobble().UpdateNowPlaying(ctx, s.track())

	entry := s.entry(journal.KindNowPlaying)
	if err != nil {
		c.record(ctx, err, entry)
		return fmt.Errorf("failed to update now playing: %w", err)
	}

	entry.IgnoredCode = resp.IgnoredMessage.Code
	entry.IgnoredMessage = resp.IgnoredMessage.Text
	entry.Accepted = resp.IgnoredMessage.Code == 0
	c.record(ctx, nil, entry)

	c.logger.Debug().Str("artist", s.Artist).Str("track", s.Track).Msg("Updated now playing")
	return nil
}

// ScrobbleTrack submits a single play
func (c *Client) ScrobbleTrack(ctx context.Context, s Scrobble) error {
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}

	resp, err := c.client.Scrobble().Scrobble(ctx, s.scrobble())
	if err != nil {
		c.record(ctx, err, s.entry(journal.KindScrobble))
		return fmt.Errorf("failed to scrobble track: %w", err)
	}

	c.record(ctx, nil, entries([]Scrobble{s}, resp)...)

	if resp.Ignored > 0 {
		if len(resp.Scrobbles) > 0 && resp.Scrobbles[0].IgnoredMessage.Text != "" {
			return fmt.Errorf("scrobble was ignored: %s", resp.Scrobbles[0].IgnoredMessage.Text)
		}
		return fmt.Errorf("scrobble was ignored by Last.fm")
	}

	c.logger.Debug().Str("artist", s.Artist).Str("track", s.Track).Msg("Scrobbled track")
	return nil
}

// ScrobbleBatch submits up to lastfm.MaxBatchSize plays in one request
func (c *Client) ScrobbleBatch(ctx context.Context, scrobbles []Scrobble) error {
	now := time.Now()
	scrobbles = append([]Scrobble(nil), scrobbles...)
	lfmScrobbles := make([]lastfm.Scrobble, len(scrobbles))
	for i := range scrobbles {
		if scrobbles[i].Timestamp.IsZero() {
			scrobbles[i].Timestamp = now
		}
		lfmScrobbles[i] = scrobbles[i].scrobble()
	}

	resp, err := c.client.Scrobble().ScrobbleBatch(ctx, lfmScrobbles)
	if err != nil {
		failed := make([]journal.Entry, len(scrobbles))
		for i, s := range scrobbles {
			failed[i] = s.entry(journal.KindScrobble)
		}
		c.record(ctx, err, failed...)
		return fmt.Errorf("failed to scrobble batch: %w", err)
	}

	c.record(ctx, nil, entries(scrobbles, resp)...)

	if resp.Ignored > 0 {
		return fmt.Errorf("%d scrobbles were ignored by Last.fm", resp.Ignored)
	}

	c.logger.Debug().Int("count", len(scrobbles)).Msg("Scrobbled batch")
	return nil
}

// IsAuthenticated checks if the client has a valid session
func (c *Client) IsAuthenticated() bool {
	return c.client.IsAuthenticated()
}

// GetSessionKey returns the current session key
func (c *Client) GetSessionKey() string {
	return c.client.SessionKey()
}

// record writes entries to the journal. Failures that happened before any
// request was made are not recorded.
func (c *Client) record(ctx context.Context, submitErr error, entries ...journal.Entry) {
	if c.journal == nil || isLocalError(submitErr) {
		return
	}

	if submitErr != nil {
		for i := range entries {
			entries[i].Error = submitErr.Error()
		}
	}

	if err := c.journal.RecordBatch(ctx, entries); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record submission in journal")
	}
}

func isLocalError(err error) bool {
	return errors.Is(err, lastfm.ErrNotAuthenticated) ||
		errors.Is(err, lastfm.ErrEmptyBatch) ||
		errors.Is(err, lastfm.ErrBatchTooLarge)
}

func (s Scrobble) track() lastfm.Track {
	return lastfm.Track{
		Artist:   s.Artist,
		Track:    s.Track,
		Album:    s.Album,
		Duration: s.Duration,
	}
}

func (s Scrobble) scrobble() lastfm.Scrobble {
	return lastfm.Scrobble{Track: s.track(), Timestamp: s.Timestamp}
}

func (s Scrobble) entry(kind journal.Kind) journal.Entry {
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return journal.Entry{
		Kind:      kind,
		Artist:    s.Artist,
		Track:     s.Track,
		Album:     s.Album,
		Timestamp: ts,
	}
}

// entries pairs submitted scrobbles with their results; Last.fm returns
// results in submission order.
func entries(scrobbles []Scrobble, resp *lastfm.ScrobbleResponse) []journal.Entry {
	out := make([]journal.Entry, len(scrobbles))
	for i, s := range scrobbles {
		out[i] = s.entry(journal.KindScrobble)
		out[i].Accepted = true
		if i < len(resp.Scrobbles) {
			msg := resp.Scrobbles[i].IgnoredMessage
			out[i].IgnoredCode = msg.Code
			out[i].IgnoredMessage = msg.Text
			out[i].Accepted = msg.Code == 0
		}
	}
	return out
}
