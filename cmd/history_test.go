package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/jfmyers9/fmscrobble/internal/journal"
	"github.com/mattn/go-runewidth"
)

func TestPadToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "no padding when width is 0",
			input:    "Hello",
			width:    0,
			expected: "Hello",
		},
		{
			name:     "no padding when width is negative",
			input:    "Hello",
			width:    -1,
			expected: "Hello",
		},
		{
			name:     "pad short text with spaces",
			input:    "Hi",
			width:    10,
			expected: "Hi        ",
		},
		{
			name:     "exact width unchanged",
			input:    "Hello",
			width:    5,
			expected: "Hello",
		},
		{
			name:     "truncate long text with ellipsis",
			input:    "This is a very long string that needs truncation",
			width:    20,
			expected: "This is a very lo...",
		},
		{
			name:     "handle emoji correctly",
			input:    "🎵 Music",
			width:    15,
			expected: "🎵 Music       ", // emoji is 2 columns wide
		},
		{
			name:     "truncate emoji text",
			input:    "🎵 This is a very long song title",
			width:    15,
			expected: "🎵 This is a...",
		},
		{
			name:     "handle unicode characters",
			input:    "日本語",
			width:    10,
			expected: "日本語    ",
		},
		{
			name:     "truncate unicode text",
			input:    "日本語とても長いテキスト",
			width:    10,
			expected: "日本語... ",
		},
		{
			name:     "empty string padding",
			input:    "",
			width:    5,
			expected: "     ",
		},
		{
			name:     "minimum width for truncation",
			input:    "Hello",
			width:    3,
			expected: "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := padToWidth(tt.input, tt.width)
			if result != tt.expected {
				t.Errorf("padToWidth(%q, %d) = %q, expected %q",
					tt.input, tt.width, result, tt.expected)
			}

			if tt.width > 0 {
				resultWidth := runewidth.StringWidth(result)
				if resultWidth != tt.width {
					t.Errorf("padToWidth(%q, %d) produced width %d, expected %d",
						tt.input, tt.width, resultWidth, tt.width)
				}
			}
		})
	}
}

func TestEntryStatus(t *testing.T) {
	tests := []struct {
		name     string
		entry    journal.Entry
		expected string
	}{
		{
			name:     "accepted",
			entry:    journal.Entry{Accepted: true},
			expected: "accepted",
		},
		{
			name:     "ignored with message",
			entry:    journal.Entry{IgnoredCode: 1, IgnoredMessage: "Artist was ignored"},
			expected: "ignored: Artist was ignored",
		},
		{
			name:     "ignored without message",
			entry:    journal.Entry{},
			expected: "ignored",
		},
		{
			name:     "failed",
			entry:    journal.Entry{Error: "lastfm: unexpected status code 503"},
			expected: "failed: lastfm: unexpected status code 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := entryStatus(tt.entry)
			if status != tt.expected {
				t.Errorf("entryStatus() = %q, expected %q", status, tt.expected)
			}
		})
	}
}

func TestPrintEntry(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printEntry(&buf, journal.Entry{
		Kind:      journal.KindScrobble,
		Artist:    "Los Campesinos!",
		Track:     "Selling Rope",
		Accepted:  true,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}, 30)

	line := buf.String()
	for _, want := range []string{"2 hours ago", "scrobble", "Los Campesinos! - Selling Rope", "accepted"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestPrintTemplate(t *testing.T) {
	entries := []journal.Entry{
		{Artist: "A", Track: "One"},
		{Artist: "B", Track: "Two"},
	}

	var buf bytes.Buffer
	if err := printTemplate(&buf, entries, "{{.Artist}}/{{.Track}}"); err != nil {
		t.Fatalf("printTemplate failed: %v", err)
	}
	if buf.String() != "A/One\nB/Two\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	if err := printTemplate(&buf, entries, "{{.Artist"); err == nil {
		t.Error("expected error for invalid template")
	}
}
