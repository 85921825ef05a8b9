package lastfm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SendAuthenticated signs and sends an authenticated call and returns the
// raw response body.
//
// The session parameters (api_key, sk) are merged with params; params win
// on collision. ErrNotAuthenticated is returned before any network activity
// when no session key is set.
func (c *Client) SendAuthenticated(ctx context.Context, op Operation, params map[string]string) (string, error) {
	if !c.creds.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}

	reqParams := c.creds.RequestParams()
	for k, v := range params {
		reqParams[k] = v
	}

	return c.send(ctx, op, reqParams)
}

// send signs params for op, POSTs them as a form and returns the body.
// There is exactly one HTTP round trip per call.
func (c *Client) send(ctx context.Context, op Operation, params map[string]string) (string, error) {
	method := op.Method()

	// method and api_sig are set by the client, never by the caller
	signed := make(map[string]string, len(params))
	for k, v := range params {
		signed[k] = v
	}
	delete(signed, "method")
	delete(signed, "api_sig")
	signature := c.creds.Signature(method, signed)

	formData := url.Values{}
	for k, v := range signed {
		formData.Set(k, v)
	}
	formData.Set("method", method)
	formData.Set("api_sig", signature)

	c.logDebugf("lastfm: calling %s", method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("lastfm: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lastfm: %s request failed: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Best effort: Last.fm usually explains the failure in the body.
		body, _ := io.ReadAll(resp.Body)
		c.logDebugf("lastfm: %s returned status %d", method, resp.StatusCode)
		return "", &StatusError{Code: resp.StatusCode, API: decodeAPIError(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BodyReadError{Err: err}
	}

	c.logDebugf("lastfm: %s succeeded", method)
	return string(body), nil
}
