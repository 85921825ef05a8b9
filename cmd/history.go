package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jfmyers9/fmscrobble/internal/journal"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyFormat string
	historyWidth  int
	historyPrune  time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent submissions from the local journal",
	Long: `List the most recent now playing updates and scrobbles sent to Last.fm,
newest first, with whether Last.fm accepted, ignored or rejected each one.

The output format can be customized with a Go template. Available fields:
.Kind, .Artist, .Track, .Album, .Timestamp, .Accepted, .IgnoredCode,
.IgnoredMessage, .Error, .CreatedAt`,
	Example: `  fmscrobble history --limit 5
  fmscrobble history --format '{{.Artist}} - {{.Track}}'`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show (0 = all)")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "", "Output format template")
	historyCmd.Flags().IntVarP(&historyWidth, "width", "w", 40, "Width of the track column")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "Delete entries older than this (e.g. 720h) before listing")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer j.Close()

	if historyPrune > 0 {
		deleted, err := j.Prune(cmd.Context(), historyPrune)
		if err != nil {
			return err
		}
		colorInfo.Printf("Pruned %d entries\n", deleted)
	}

	entries, err := j.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		colorInfo.Println("No submissions recorded yet.")
		return nil
	}

	if historyFormat != "" {
		return printTemplate(os.Stdout, entries, historyFormat)
	}

	for _, e := range entries {
		printEntry(os.Stdout, e, historyWidth)
	}
	return nil
}

// printEntry writes one aligned history line
func printEntry(w io.Writer, e journal.Entry, width int) {
	status, c := entryStatus(e)
	fmt.Fprintf(w, "%s  %s  %s  ",
		padToWidth(humanize.Time(e.CreatedAt), 16),
		padToWidth(entryKindLabel(e.Kind), 11),
		padToWidth(e.Artist+" - "+e.Track, width),
	)
	c.Fprintln(w, status)
}

func entryKindLabel(k journal.Kind) string {
	if k == journal.KindNowPlaying {
		return "now playing"
	}
	return "scrobble"
}

// entryStatus describes the outcome of a submission
func entryStatus(e journal.Entry) (string, colorPrinter) {
	switch {
	case e.Error != "":
		return "failed: " + e.Error, colorError
	case !e.Accepted:
		msg := "ignored"
		if e.IgnoredMessage != "" {
			msg += ": " + e.IgnoredMessage
		}
		return msg, colorWarning
	default:
		return "accepted", colorSuccess
	}
}

// colorPrinter is the subset of *color.Color used for status output
type colorPrinter interface {
	Fprintln(w io.Writer, a ...interface{}) (int, error)
}

// printTemplate renders each entry with a user template
func printTemplate(w io.Writer, entries []journal.Entry, templateStr string) error {
	tmpl, err := template.New("output").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	for _, e := range entries {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, e); err != nil {
			return fmt.Errorf("template execution failed: %w", err)
		}
		fmt.Fprintln(w, buf.String())
	}
	return nil
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			return runewidth.Truncate(ellipsis, width, "")
		}

		truncated := runewidth.Truncate(text, width-ellipsisWidth, "")
		result := truncated + ellipsis

		// Wide runes can leave the truncation one column short
		if resultWidth := runewidth.StringWidth(result); resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	} else if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	return text
}
