package lastfm

import (
	"time"
)

// Track represents a music track for scrobbling or now playing updates.
type Track struct {
	Artist      string        // Required: Artist name
	Track       string        // Required: Track name
	Album       string        // Optional: Album name
	AlbumArtist string        // Optional: Album artist (if different from track artist)
	Duration    time.Duration // Optional: Track duration
	TrackNumber int           // Optional: Track number on album
	MBTrackID   string        // Optional: MusicBrainz track ID
}

// Scrobble represents a single track play.
type Scrobble struct {
	Track     Track     // The track being scrobbled
	Timestamp time.Time // When the track started playing; zero means now
}

// WithTimestamp returns a copy of s played at t.
func (s Scrobble) WithTimestamp(t time.Time) Scrobble {
	s.Timestamp = t
	return s
}

// Session represents an authenticated session from auth.getSession or
// auth.getMobileSession.
type Session struct {
	Key        string // Session key for authenticated requests
	Username   string // Last.fm username
	Subscriber bool   // Whether user is a subscriber
}

// CorrectableString is a metadata field Last.fm may have auto-corrected.
type CorrectableString struct {
	Text      string
	Corrected bool
}

// String returns the (possibly corrected) text.
func (c CorrectableString) String() string {
	return c.Text
}

// IgnoredMessage explains why Last.fm ignored a submission. Code 0 means it
// was not ignored.
type IgnoredMessage struct {
	Code int
	Text string
}

// NowPlayingResponse represents the response from track.updateNowPlaying.
type NowPlayingResponse struct {
	Artist         CorrectableString
	Track          CorrectableString
	Album          CorrectableString
	AlbumArtist    CorrectableString
	IgnoredMessage IgnoredMessage
}

// ScrobbleResult is the outcome of one scrobble in a track.scrobble response.
type ScrobbleResult struct {
	Artist         CorrectableString
	Track          CorrectableString
	Album          CorrectableString
	AlbumArtist    CorrectableString
	Timestamp      int64
	IgnoredMessage IgnoredMessage
}

// ScrobbleResponse represents the response from track.scrobble.
type ScrobbleResponse struct {
	Accepted  int // Number of scrobbles accepted
	Ignored   int // Number of scrobbles ignored
	Scrobbles []ScrobbleResult
}
