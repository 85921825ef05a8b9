//go:build integration

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles the CLI into a temporary directory
func buildBinary(t *testing.T) string {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "fmscrobble_test")
	buildCmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}
	return bin
}

// fakeLastFM answers every scrobble API method with a canned success
func fakeLastFM(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))

		switch form.Get("method") {
		case "track.updateNowPlaying":
			_, _ = io.WriteString(w, `{"nowplaying":{"artist":"A","track":"T","ignoredMessage":{"code":"0","#text":""}}}`)
		case "track.scrobble":
			_, _ = io.WriteString(w, `{"scrobbles":{"scrobble":{"artist":"A","track":"T","timestamp":"1700000000","ignoredMessage":{"code":"0","#text":""}},"@attr":{"accepted":1,"ignored":0}}}`)
		case "auth.getMobileSession":
			_, _ = io.WriteString(w, `{"session":{"name":"rj","key":"mobile-key","subscriber":0}}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":3,"message":"Invalid Method"}`)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, bin string, env []string, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// TestScrobbleAndHistory runs a full session against a fake Last.fm endpoint
func TestScrobbleAndHistory(t *testing.T) {
	bin := buildBinary(t)
	server := fakeLastFM(t)
	dir := t.TempDir()

	configPath := filepath.Join(dir, "config.yaml")
	env := []string{
		"FMSCROBBLE_LASTFM_API_KEY=test_key",
		"FMSCROBBLE_LASTFM_API_SECRET=test_secret",
		"FMSCROBBLE_LASTFM_BASE_URL=" + server.URL + "/2.0/?format=json",
		"FMSCROBBLE_JOURNAL_PATH=" + filepath.Join(dir, "journal.db"),
	}

	// No session key yet
	out, err := run(t, bin, env, "", "--config", configPath, "scrobble", "--artist", "A", "--track", "T")
	if err == nil {
		t.Fatalf("expected scrobble without a session to fail, got: %s", out)
	}
	if !strings.Contains(out, "fmscrobble auth") {
		t.Errorf("expected hint to authenticate, got: %s", out)
	}

	out, err = run(t, bin, env, "hunter2\n", "--config", configPath, "auth", "--username", "rj")
	if err != nil {
		t.Fatalf("auth failed: %v\n%s", err, out)
	}
	saved, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(saved), "mobile-key") {
		t.Errorf("expected session key in config, got:\n%s", saved)
	}

	out, err = run(t, bin, env, "", "--config", configPath, "now-playing", "--artist", "A", "--track", "T")
	if err != nil {
		t.Fatalf("now-playing failed: %v\n%s", err, out)
	}

	out, err = run(t, bin, env, "", "--config", configPath, "scrobble", "--artist", "A", "--track", "T", "--timestamp", "1700000000")
	if err != nil {
		t.Fatalf("scrobble failed: %v\n%s", err, out)
	}

	out, err = run(t, bin, env, "", "--config", configPath, "history", "--format", "{{.Kind}} {{.Artist}} {{.Track}} {{.Accepted}}")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	for _, want := range []string{"scrobble A T true", "now_playing A T true"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in history output:\n%s", want, out)
		}
	}
}
