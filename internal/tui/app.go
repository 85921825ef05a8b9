package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jfmyers9/fmscrobble/internal/journal"
	"github.com/rivo/tview"
)

const maxRecentEntries = 8

// Source provides the submissions shown by the dashboard
type Source interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
	Stats(ctx context.Context, since time.Time) (journal.Stats, error)
}

// Config holds TUI configuration options
type Config struct {
	RefreshRate time.Duration // How often to re-read the journal
}

// DefaultConfig returns the default TUI configuration
func DefaultConfig() Config {
	return Config{
		RefreshRate: 2 * time.Second,
	}
}

// snapshot is one read of the journal
type snapshot struct {
	nowPlaying *journal.Entry
	recent     []journal.Entry
	stats      journal.Stats
	err        error
}

// App is a live dashboard of submissions recorded in the journal
type App struct {
	app        *tview.Application
	nowPlaying *tview.TextView
	stats      *tview.TextView
	recent     *tview.TextView
	status     *tview.TextView

	config Config
	source Source

	// Guards the fields below, shared by the poller and the draw callback
	mu           sync.Mutex
	current      snapshot
	sessionStart time.Time

	// Last-rendered content for change detection
	lastNowPlaying string
	lastStats      string
	lastRecent     string

	refreshNow chan struct{}
	cancelFunc context.CancelFunc
}

// New creates a dashboard reading from source
func New(source Source, cfg Config) *App {
	a := &App{
		app:          tview.NewApplication(),
		config:       cfg,
		source:       source,
		sessionStart: time.Now(),
		refreshNow:   make(chan struct{}, 1),
	}
	a.setupUI()
	return a
}

// setupUI creates the UI layout
func (a *App) setupUI() {
	a.nowPlaying = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	a.nowPlaying.SetBorder(true).
		SetTitle(" Now Playing ").
		SetTitleAlign(tview.AlignLeft)

	a.stats = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.stats.SetBorder(true).
		SetTitle(" Session ").
		SetTitleAlign(tview.AlignLeft)

	a.recent = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.recent.SetBorder(true).
		SetTitle(" Recent ").
		SetTitleAlign(tview.AlignLeft)

	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[gray]q:quit  r:refresh[-]")

	// Top row: now playing
	// Middle row: session stats | recent submissions
	// Footer: status bar
	middleRow := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.stats, 0, 1, false).
		AddItem(a.recent, 0, 2, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.nowPlaying, 7, 1, false).
		AddItem(middleRow, 0, 1, false).
		AddItem(a.status, 1, 1, false)

	a.app.SetInputCapture(a.handleKeyEvent)
	a.app.SetRoot(flex, true)
}

// handleKeyEvent processes keyboard input
func (a *App) handleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}

	switch event.Rune() {
	case 'q', 'Q':
		a.Stop()
		return nil
	case 'r', 'R':
		select {
		case a.refreshNow <- struct{}{}:
		default:
		}
		return nil
	}
	return event
}

// Run starts the dashboard and blocks until it is closed
func (a *App) Run(ctx context.Context) error {
	ctx, a.cancelFunc = context.WithCancel(ctx)

	go a.poll(ctx)

	if err := a.app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// poll re-reads the journal on every tick and redraws. It is the only
// source of redraws.
func (a *App) poll(ctx context.Context) {
	refreshRate := a.config.RefreshRate
	if refreshRate <= 0 {
		refreshRate = DefaultConfig().RefreshRate
	}
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	for {
		a.load(ctx)
		a.refresh()

		select {
		case <-ctx.Done():
			a.app.Stop()
			return
		case <-ticker.C:
		case <-a.refreshNow:
		}
	}
}

// load reads a fresh snapshot from the source
func (a *App) load(ctx context.Context) {
	snap := readSnapshot(ctx, a.source, a.sessionStart)

	a.mu.Lock()
	a.current = snap
	a.mu.Unlock()
}

func readSnapshot(ctx context.Context, source Source, since time.Time) snapshot {
	var snap snapshot

	recent, err := source.Recent(ctx, maxRecentEntries)
	if err != nil {
		snap.err = err
		return snap
	}
	snap.recent = recent

	for i := range recent {
		if recent[i].Kind == journal.KindNowPlaying {
			snap.nowPlaying = &recent[i]
			break
		}
	}

	snap.stats, snap.err = source.Stats(ctx, since)
	return snap
}

// refresh updates all UI components
func (a *App) refresh() {
	a.app.QueueUpdateDraw(func() {
		a.mu.Lock()
		defer a.mu.Unlock()

		now := time.Now()
		a.setIfChanged(a.nowPlaying, &a.lastNowPlaying, renderNowPlaying(a.current.nowPlaying, now))
		a.setIfChanged(a.stats, &a.lastStats, renderStats(a.current.stats, now.Sub(a.sessionStart), a.current.err))
		a.setIfChanged(a.recent, &a.lastRecent, renderRecent(a.current.recent))
	})
}

func (a *App) setIfChanged(view *tview.TextView, last *string, text string) {
	if text != *last {
		*last = text
		view.SetText(text)
	}
}

// Stop stops the TUI application
func (a *App) Stop() {
	if a.cancelFunc != nil {
		a.cancelFunc()
	}
	a.app.Stop()
}

// renderNowPlaying shows the latest now playing update
func renderNowPlaying(e *journal.Entry, now time.Time) string {
	if e == nil {
		return "\n[gray]Nothing playing[-]"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[white::b]%s[-:-:-]\n", tview.Escape(e.Track)))
	sb.WriteString(fmt.Sprintf("[yellow]%s[-]\n", tview.Escape(e.Artist)))
	if e.Album != "" {
		sb.WriteString(fmt.Sprintf("[gray]%s[-]\n", tview.Escape(e.Album)))
	}
	sb.WriteString(fmt.Sprintf("\n[gray]sent %s ago[-]", formatDuration(now.Sub(e.CreatedAt))))
	return sb.String()
}

// renderStats shows totals since the dashboard started
func renderStats(s journal.Stats, elapsed time.Duration, err error) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scrobbles:   %d\n", s.Scrobbles))
	sb.WriteString(fmt.Sprintf("Now playing: %d\n", s.NowPlaying))
	sb.WriteString(fmt.Sprintf("[green]Accepted:    %d[-]\n", s.Accepted))
	sb.WriteString(fmt.Sprintf("[yellow]Ignored:     %d[-]\n", s.Ignored))
	sb.WriteString(fmt.Sprintf("[red]Failed:      %d[-]\n", s.Failed))
	sb.WriteString(fmt.Sprintf("\nSession: %s", formatDuration(elapsed)))
	if err != nil {
		sb.WriteString(fmt.Sprintf("\n\n[red]%s[-]", tview.Escape(err.Error())))
	}
	return sb.String()
}

// renderRecent lists the latest submissions, newest first
func renderRecent(entries []journal.Entry) string {
	if len(entries) == 0 {
		return "[gray]No submissions yet[-]"
	}

	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}

		switch {
		case e.Error != "":
			sb.WriteString("[red]✗[-] ")
		case !e.Accepted:
			sb.WriteString("[yellow]-[-] ")
		case e.Kind == journal.KindNowPlaying:
			sb.WriteString("[blue]▶[-] ")
		default:
			sb.WriteString("[green]✓[-] ")
		}

		sb.WriteString(fmt.Sprintf("[white]%s[-] [gray]%s[-]",
			tview.Escape(truncate(e.Track, 30)),
			tview.Escape(truncate(e.Artist, 20))))
	}
	return sb.String()
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// formatDuration formats a duration as MM:SS or HH:MM:SS for longer durations
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
