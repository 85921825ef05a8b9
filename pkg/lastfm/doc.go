// Package lastfm provides a client library for the Last.fm Scrobble API 2.0.
//
// # Overview
//
// This package authenticates a user against Last.fm and submits "now
// playing" and "scrobble" events, individually or in batches. Requests are
// form-encoded POSTs signed with the application's API secret; responses are
// JSON.
//
// # Installation
//
//	go get github.com/jfmyers9/fmscrobble/pkg/lastfm
//
// # Quick Start
//
// First, create a client with your API credentials:
//
//	import "github.com/jfmyers9/fmscrobble/pkg/lastfm"
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey:    "your-api-key",
//	    APISecret: "your-api-secret",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Authentication
//
// A client starts unauthenticated and becomes authenticated once it holds a
// session key. There are three ways to get one:
//
//	// Username and password (auth.getMobileSession)
//	session, err := client.Auth().WithPassword(ctx, "username", "password")
//
//	// A token the user authorized on last.fm (auth.getSession)
//	token, err := client.Auth().GetToken(ctx)
//	fmt.Println("Please visit:", client.Auth().GetAuthURL(token))
//	session, err := client.Auth().WithToken(ctx, token)
//
//	// A session key saved from an earlier run
//	client.Auth().WithSessionKey(savedKey)
//
// Setting a new username/password or token drops the current session key, so
// a failed re-authentication leaves the client unauthenticated.
//
// # Scrobbling
//
// Once authenticated, you can scrobble tracks and update now playing status:
//
//	track := lastfm.Track{
//	    Artist: "Los Campesinos!",
//	    Track:  "The Time Before the Last",
//	    Album:  "No Blues",
//	}
//	_, err := client.Scrobble().UpdateNowPlaying(ctx, track)
//
//	// Scrobble a single track; a zero Timestamp means "now"
//	_, err = client.Scrobble().Scrobble(ctx, lastfm.Scrobble{Track: track})
//
//	// Batch scrobble (1 to 50 tracks)
//	resp, err := client.Scrobble().ScrobbleBatch(ctx, scrobbles)
//
// # Signatures
//
// Every request carries an api_sig parameter: the MD5 of all parameters
// sorted by key and concatenated as key+value, followed by the API secret.
// Sign exposes the algorithm; the hash can be replaced through Config.Digest.
//
// # Error Handling
//
// Local precondition failures are sentinel errors (ErrNotAuthenticated,
// ErrMissingIdentity, ErrEmptyBatch, ...) to be matched with errors.Is.
// Remote failures are *StatusError, *BodyReadError or *Error values:
//
//	_, err := client.Scrobble().Scrobble(ctx, s)
//	var lastfmErr *lastfm.Error
//	if errors.As(err, &lastfmErr) && lastfmErr.Code == lastfm.ErrCodeInvalidSessionKey {
//	    // Re-authenticate
//	}
//
// The client performs exactly one HTTP request per call and never retries.
//
// # Concurrency
//
// A Client owns mutable credentials and is not safe for concurrent use.
//
// # Last.fm API Documentation
//
// For more information about the Last.fm API:
// https://www.last.fm/api/scrobbling
package lastfm
