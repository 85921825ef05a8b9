package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jfmyers9/fmscrobble/internal/scrobbler"
	"github.com/jfmyers9/fmscrobble/pkg/lastfm"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	scrobbleFlags     trackFlags
	scrobbleTimestamp string
	scrobbleFile      string
)

var scrobbleCmd = &cobra.Command{
	Use:   "scrobble",
	Short: "Add tracks to your Last.fm listening history",
	Long: `Scrobble a single track from flags, or many tracks from a JSON file.

The file holds an array of objects:

  [
    {"artist": "Los Campesinos!", "track": "Selling Rope", "album": "No Blues",
     "timestamp": 1700000000, "duration": 240}
  ]

timestamp is Unix seconds or an RFC 3339 string and defaults to now.
duration is in seconds. Files with more than 50 tracks are sent in
several requests.`,
	Example: `  fmscrobble scrobble --artist "Los Campesinos!" --track "Selling Rope"
  fmscrobble scrobble --artist "Los Campesinos!" --track "Selling Rope" --timestamp 2026-01-02T15:04:05Z
  fmscrobble scrobble --file plays.json`,
	Args: cobra.NoArgs,
	RunE: runScrobble,
}

func init() {
	rootCmd.AddCommand(scrobbleCmd)
	scrobbleFlags.register(scrobbleCmd)
	scrobbleCmd.Flags().StringVar(&scrobbleTimestamp, "timestamp", "", "When the track started playing (Unix seconds or RFC 3339, default now)")
	scrobbleCmd.Flags().StringVarP(&scrobbleFile, "file", "f", "", "JSON file with tracks to scrobble")
	scrobbleCmd.MarkFlagsMutuallyExclusive("file", "artist")
	scrobbleCmd.MarkFlagsMutuallyExclusive("file", "timestamp")
}

func runScrobble(cmd *cobra.Command, args []string) error {
	var scrobbles []scrobbler.Scrobble
	if scrobbleFile != "" {
		data, err := os.ReadFile(scrobbleFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", scrobbleFile, err)
		}
		scrobbles, err = parseScrobbleFile(data)
		if err != nil {
			return fmt.Errorf("%s: %w", scrobbleFile, err)
		}
	} else {
		s, err := scrobbleFlags.scrobble()
		if err != nil {
			return err
		}
		if scrobbleTimestamp != "" {
			s.Timestamp, err = parseTimestampString(scrobbleTimestamp)
			if err != nil {
				return fmt.Errorf("invalid --timestamp: %w", err)
			}
		}
		scrobbles = []scrobbler.Scrobble{s}
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.requireAuth(); err != nil {
		return err
	}

	if len(scrobbles) == 1 {
		s := scrobbles[0]
		if err := sess.client.ScrobbleTrack(cmd.Context(), s); err != nil {
			return err
		}
		colorSuccess.Printf("✓ Scrobbled: %s - %s\n", s.Artist, s.Track)
		return nil
	}

	sent := 0
	for start := 0; start < len(scrobbles); start += lastfm.MaxBatchSize {
		end := min(start+lastfm.MaxBatchSize, len(scrobbles))
		if err := sess.client.ScrobbleBatch(cmd.Context(), scrobbles[start:end]); err != nil {
			colorWarning.Printf("Batch %d-%d: %v\n", start+1, end, err)
			continue
		}
		sent += end - start
	}

	if sent != len(scrobbles) {
		return fmt.Errorf("%d of %d tracks were not scrobbled; see 'fmscrobble history'", len(scrobbles)-sent, len(scrobbles))
	}
	colorSuccess.Printf("✓ Scrobbled %d tracks\n", sent)
	return nil
}

// parseScrobbleFile decodes a JSON array of tracks
func parseScrobbleFile(data []byte) ([]scrobbler.Scrobble, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of tracks")
	}

	var scrobbles []scrobbler.Scrobble
	var parseErr error
	root.ForEach(func(key, item gjson.Result) bool {
		i := int(key.Int())
		s := scrobbler.Scrobble{
			Artist:   item.Get("artist").String(),
			Track:    item.Get("track").String(),
			Album:    item.Get("album").String(),
			Duration: time.Duration(item.Get("duration").Int()) * time.Second,
		}
		if s.Artist == "" || s.Track == "" {
			parseErr = fmt.Errorf("entry %d: artist and track are required", i)
			return false
		}

		if ts := item.Get("timestamp"); ts.Exists() {
			t, err := parseTimestamp(ts)
			if err != nil {
				parseErr = fmt.Errorf("entry %d: %w", i, err)
				return false
			}
			s.Timestamp = t
		}

		scrobbles = append(scrobbles, s)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if len(scrobbles) == 0 {
		return nil, fmt.Errorf("no tracks to scrobble")
	}
	return scrobbles, nil
}

// parseTimestamp accepts Unix seconds as a number or numeric string, or an
// RFC 3339 string
func parseTimestamp(v gjson.Result) (time.Time, error) {
	switch v.Type {
	case gjson.Number:
		return time.Unix(v.Int(), 0), nil
	case gjson.String:
		return parseTimestampString(v.Str)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp %s", v.Raw)
	}
}

// parseTimestampString accepts Unix seconds or an RFC 3339 string
func parseTimestampString(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is neither Unix seconds nor RFC 3339", s)
	}
	return t, nil
}
