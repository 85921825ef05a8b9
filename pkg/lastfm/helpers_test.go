package lastfm

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const (
	testAPIKey    = "test-api-key"
	testAPISecret = "test-secret"
)

// newTestClient starts an httptest server running handler and returns a
// client pointed at it together with a counter of received requests.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:    testAPIKey,
		APISecret: testAPISecret,
		BaseURL:   server.URL + "/2.0/?format=json",
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return client, &calls
}

// parseSignedForm parses the request form and checks the request shape and
// api_sig the way Last.fm does.
func parseSignedForm(t *testing.T, r *http.Request) map[string]string {
	t.Helper()

	if r.Method != http.MethodPost {
		t.Errorf("expected POST request, got %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
		t.Errorf("expected Content-Type application/x-www-form-urlencoded, got %s", ct)
	}
	if err := r.ParseForm(); err != nil {
		t.Errorf("failed to parse form: %v", err)
	}
	if format := r.URL.Query().Get("format"); format != "json" {
		t.Errorf("expected format=json in query, got %q", format)
	}

	params := make(map[string]string)
	for k := range r.PostForm {
		params[k] = r.PostForm.Get(k)
	}

	sig := params["api_sig"]
	method := params["method"]
	unsigned := make(map[string]string)
	for k, v := range params {
		if k != "api_sig" && k != "method" {
			unsigned[k] = v
		}
	}
	if want := Sign(unsigned, method, testAPISecret, MD5); sig != want {
		t.Errorf("expected api_sig %q, got %q", want, sig)
	}

	return params
}

func writeBody(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		t.Errorf("failed to write response body: %v", err)
	}
}

// recordingDoer is an HTTP collaborator that only records whether it was used.
type recordingDoer struct {
	calls int
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	return nil, http.ErrHandlerTimeout
}
