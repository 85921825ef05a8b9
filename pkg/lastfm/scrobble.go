package lastfm

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ScrobbleService provides scrobbling operations for the Last.fm API.
type ScrobbleService struct {
	client *Client
}

const (
	// MaxBatchSize is the maximum number of scrobbles allowed in a single batch.
	MaxBatchSize = 50
)

// UpdateNowPlaying updates the "now playing" status on Last.fm.
//
// This should be called when a track starts playing. It does not count
// as a scrobble and does not affect play counts.
//
// Requires authentication (see AuthService).
//
// Example:
//
//	track := lastfm.Track{
//	    Artist: "Los Campesinos!",
//	    Track:  "As Lucerne / The Low",
//	    Album:  "No Blues",
//	}
//	_, err := client.Scrobble().UpdateNowPlaying(ctx, track)
//	if err != nil {
//	    log.Printf("Failed to update now playing: %v", err)
//	}
func (s *ScrobbleService) UpdateNowPlaying(ctx context.Context, track Track) (*NowPlayingResponse, error) {
	body, err := s.client.SendAuthenticated(ctx, OpNowPlaying, track.params(""))
	if err != nil {
		return nil, fmt.Errorf("now playing failed: %w", err)
	}

	resp, err := decodeNowPlaying(body)
	if err != nil {
		return nil, fmt.Errorf("now playing failed: %w", err)
	}

	return resp, nil
}

// Scrobble submits a single scrobble to Last.fm.
//
// If the scrobble has no timestamp, the current time is used.
//
// Requires authentication (see AuthService).
func (s *ScrobbleService) Scrobble(ctx context.Context, scrobble Scrobble) (*ScrobbleResponse, error) {
	params := scrobble.params("", s.client.now())

	body, err := s.client.SendAuthenticated(ctx, OpScrobble, params)
	if err != nil {
		return nil, fmt.Errorf("scrobble failed: %w", err)
	}

	resp, err := decodeScrobbles(body)
	if err != nil {
		return nil, fmt.Errorf("scrobble failed: %w", err)
	}

	return resp, nil
}

// ScrobbleBatch submits multiple scrobbles to Last.fm in a single request.
//
// Between 1 and MaxBatchSize scrobbles can be submitted at once; anything
// else fails with ErrEmptyBatch or ErrBatchTooLarge before any request is
// made. Scrobbles without a timestamp are stamped with the current time.
//
// Example:
//
//	scrobbles := []lastfm.Scrobble{
//	    {Track: track1, Timestamp: time.Now().Add(-10 * time.Minute)},
//	    {Track: track2, Timestamp: time.Now().Add(-5 * time.Minute)},
//	}
//	resp, err := client.Scrobble().ScrobbleBatch(ctx, scrobbles)
//	if err != nil {
//	    log.Printf("Failed to scrobble batch: %v", err)
//	}
//	fmt.Printf("Accepted: %d, Ignored: %d\n", resp.Accepted, resp.Ignored)
func (s *ScrobbleService) ScrobbleBatch(ctx context.Context, scrobbles []Scrobble) (*ScrobbleResponse, error) {
	params, err := BatchParams(scrobbles, s.client.now())
	if err != nil {
		return nil, fmt.Errorf("batch scrobble failed: %w", err)
	}

	body, err := s.client.SendAuthenticated(ctx, OpScrobble, params)
	if err != nil {
		return nil, fmt.Errorf("batch scrobble failed: %w", err)
	}

	resp, err := decodeScrobbles(body)
	if err != nil {
		return nil, fmt.Errorf("batch scrobble failed: %w", err)
	}

	return resp, nil
}

// BatchParams builds the track.scrobble parameters for a batch, suffixing
// every key with the scrobble's index ("artist[0]", "track[0]", ...).
// Scrobbles without a timestamp are stamped with now.
func BatchParams(scrobbles []Scrobble, now time.Time) (map[string]string, error) {
	if len(scrobbles) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(scrobbles) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	params := make(map[string]string)
	for i, scrobble := range scrobbles {
		for k, v := range scrobble.params(fmt.Sprintf("[%d]", i), now) {
			params[k] = v
		}
	}
	return params, nil
}

// params returns the track fields, each key followed by suffix.
func (t Track) params(suffix string) map[string]string {
	params := map[string]string{
		"artist" + suffix: t.Artist,
		"track" + suffix:  t.Track,
	}

	// Add optional parameters
	if t.Album != "" {
		params["album"+suffix] = t.Album
	}
	if t.AlbumArtist != "" {
		params["albumArtist"+suffix] = t.AlbumArtist
	}
	if t.Duration > 0 {
		params["duration"+suffix] = strconv.Itoa(int(t.Duration.Seconds()))
	}
	if t.TrackNumber > 0 {
		params["trackNumber"+suffix] = strconv.Itoa(t.TrackNumber)
	}
	if t.MBTrackID != "" {
		params["mbid"+suffix] = t.MBTrackID
	}

	return params
}

func (s Scrobble) params(suffix string, now time.Time) map[string]string {
	params := s.Track.params(suffix)

	ts := s.Timestamp
	if ts.IsZero() {
		ts = now
	}
	params["timestamp"+suffix] = strconv.FormatInt(ts.Unix(), 10)

	return params
}
