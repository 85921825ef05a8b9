package cmd

import (
	"fmt"
	"time"

	"github.com/jfmyers9/fmscrobble/internal/scrobbler"
	"github.com/spf13/cobra"
)

// trackFlags are shared by now-playing and scrobble
type trackFlags struct {
	artist   string
	track    string
	album    string
	duration time.Duration
}

func (f *trackFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.artist, "artist", "a", "", "Artist name")
	cmd.Flags().StringVarP(&f.track, "track", "t", "", "Track title")
	cmd.Flags().StringVar(&f.album, "album", "", "Album title")
	cmd.Flags().DurationVarP(&f.duration, "duration", "d", 0, "Track length (e.g. 3m45s)")
}

func (f *trackFlags) scrobble() (scrobbler.Scrobble, error) {
	if f.artist == "" || f.track == "" {
		return scrobbler.Scrobble{}, fmt.Errorf("--artist and --track are required")
	}
	return scrobbler.Scrobble{
		Artist:   f.artist,
		Track:    f.track,
		Album:    f.album,
		Duration: f.duration,
	}, nil
}

var nowPlayingFlags trackFlags

var nowPlayingCmd = &cobra.Command{
	Use:   "now-playing",
	Short: "Tell Last.fm what you are listening to",
	Long: `Send a "now playing" update for a track.

Now playing updates are shown on your profile while the track plays but
are not added to your listening history. Use 'fmscrobble scrobble' for that.`,
	Example: `  fmscrobble now-playing --artist "Los Campesinos!" --track "Selling Rope" --duration 4m`,
	Args:    cobra.NoArgs,
	RunE:    runNowPlaying,
}

func init() {
	rootCmd.AddCommand(nowPlayingCmd)
	nowPlayingFlags.register(nowPlayingCmd)
}

func runNowPlaying(cmd *cobra.Command, args []string) error {
	s, err := nowPlayingFlags.scrobble()
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.requireAuth(); err != nil {
		return err
	}

	if err := sess.client.UpdateNowPlaying(cmd.Context(), s); err != nil {
		return err
	}

	colorSuccess.Printf("✓ Now playing: %s - %s\n", s.Artist, s.Track)
	return nil
}
