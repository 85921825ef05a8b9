package lastfm

import (
	"errors"
	"fmt"
)

// Error represents a Last.fm API error.
//
// Last.fm reports failures as a JSON object carrying an error code and a
// message, either with a non-2xx status (wrapped in *StatusError) or, for
// some methods, with 200 OK.
type Error struct {
	Code    int    // Last.fm error code
	Message string // Error message from Last.fm
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Is checks if the target error is a Last.fm error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Temporary reports whether Last.fm considers the failure transient.
// The client never retries; callers decide whether to re-issue the call.
//
// The following Last.fm error codes are considered temporary:
//   - 11: Service Offline - temporarily unavailable
//   - 16: Service Temporarily Unavailable
func (e *Error) Temporary() bool {
	switch e.Code {
	case ErrCodeServiceOffline, ErrCodeTempUnavailable:
		return true
	default:
		return false
	}
}

// Common Last.fm error codes.
const (
	ErrCodeInvalidService       = 2
	ErrCodeInvalidMethod        = 3
	ErrCodeAuthenticationFailed = 4
	ErrCodeInvalidFormat        = 5
	ErrCodeInvalidParameters    = 6
	ErrCodeInvalidResourceSpec  = 7
	ErrCodeOperationFailed      = 8
	ErrCodeInvalidSessionKey    = 9
	ErrCodeInvalidAPIKey        = 10
	ErrCodeServiceOffline       = 11
	ErrCodeSubscribersOnly      = 12
	ErrCodeInvalidSignature     = 13
	ErrCodeUnauthorizedToken    = 14
	ErrCodeExpiredToken         = 15
	ErrCodeTempUnavailable      = 16
	ErrCodeRateLimitExceeded    = 29
)

// Predefined errors for common cases.
var (
	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("lastfm: invalid configuration")

	// ErrMissingIdentity is returned when authentication is attempted before
	// a username/password or token has been set.
	ErrMissingIdentity = errors.New("lastfm: no user identity set")

	// ErrInvalidClientCredentials is returned when the API key or secret is empty.
	ErrInvalidClientCredentials = errors.New("lastfm: API key and secret are required")

	// ErrIncompleteUserCredentials is returned when a username, password or
	// token is empty.
	ErrIncompleteUserCredentials = errors.New("lastfm: incomplete user credentials")

	// ErrNotAuthenticated is returned when an operation requires a session
	// key but none has been set.
	ErrNotAuthenticated = errors.New("lastfm: session key required")

	// ErrEmptyBatch is returned when ScrobbleBatch is called with no scrobbles.
	ErrEmptyBatch = errors.New("lastfm: scrobble batch is empty")

	// ErrBatchTooLarge is returned when a batch exceeds MaxBatchSize.
	ErrBatchTooLarge = fmt.Errorf("lastfm: scrobble batch exceeds %d tracks", MaxBatchSize)

	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("lastfm: malformed response")
)

// StatusError is returned when Last.fm answers with a non-2xx HTTP status.
type StatusError struct {
	Code int    // HTTP status code
	API  *Error // Decoded Last.fm error, if the body carried one
}

func (e *StatusError) Error() string {
	if e.API != nil {
		return fmt.Sprintf("lastfm: unexpected status code %d: %v", e.Code, e.API)
	}
	return fmt.Sprintf("lastfm: unexpected status code %d", e.Code)
}

// Unwrap exposes the decoded API error to errors.As and errors.Is.
func (e *StatusError) Unwrap() error {
	if e.API == nil {
		return nil
	}
	return e.API
}

// BodyReadError is returned when a response body cannot be read.
type BodyReadError struct {
	Err error
}

func (e *BodyReadError) Error() string {
	return fmt.Sprintf("lastfm: failed to read response: %v", e.Err)
}

func (e *BodyReadError) Unwrap() error {
	return e.Err
}
