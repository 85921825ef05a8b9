package cmd

import (
	"fmt"
	"time"

	"github.com/jfmyers9/fmscrobble/internal/journal"
	"github.com/jfmyers9/fmscrobble/internal/tui"
	"github.com/spf13/cobra"
)

var watchRefresh time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Display a live terminal dashboard of submissions",
	Long: `Display a terminal dashboard that follows the submission journal.

The dashboard shows the latest now playing update, totals of accepted,
ignored and failed submissions since it started, and the most recent
entries. It picks up submissions made by other fmscrobble commands.

Press 'r' to refresh immediately and 'q' to quit.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchRefresh, "refresh", tui.DefaultConfig().RefreshRate, "How often to re-read the journal")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()

	app := tui.New(j, tui.Config{RefreshRate: watchRefresh})
	return app.Run(cmd.Context())
}
