package lastfm

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// parseResponse validates a JSON body and surfaces an API error it carries.
func parseResponse(body string) (gjson.Result, error) {
	if !gjson.Valid(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	if apiErr := decodeAPIError([]byte(body)); apiErr != nil {
		return gjson.Result{}, apiErr
	}
	return gjson.Parse(body), nil
}

// decodeAPIError returns the Last.fm error in body, or nil if there is none.
func decodeAPIError(body []byte) *Error {
	if !gjson.ValidBytes(body) {
		return nil
	}
	code := gjson.GetBytes(body, "error")
	if !code.Exists() {
		return nil
	}
	return &Error{
		Code:    int(code.Int()),
		Message: gjson.GetBytes(body, "message").String(),
	}
}

func decodeSession(body string) (*Session, error) {
	root, err := parseResponse(body)
	if err != nil {
		return nil, err
	}

	session := root.Get("session")
	if !session.IsObject() {
		return nil, fmt.Errorf("%w: missing session object", ErrMalformedResponse)
	}

	key := session.Get("key").String()
	if key == "" {
		return nil, fmt.Errorf("%w: empty session key", ErrMalformedResponse)
	}

	return &Session{
		Key:        key,
		Username:   session.Get("name").String(),
		Subscriber: session.Get("subscriber").Bool(),
	}, nil
}

func decodeToken(body string) (string, error) {
	root, err := parseResponse(body)
	if err != nil {
		return "", err
	}
	token := root.Get("token").String()
	if token == "" {
		return "", fmt.Errorf("%w: missing token", ErrMalformedResponse)
	}
	return token, nil
}

func decodeNowPlaying(body string) (*NowPlayingResponse, error) {
	root, err := parseResponse(body)
	if err != nil {
		return nil, err
	}

	np := root.Get("nowplaying")
	if !np.IsObject() {
		return nil, fmt.Errorf("%w: missing nowplaying object", ErrMalformedResponse)
	}

	return &NowPlayingResponse{
		Artist:         decodeCorrectable(np.Get("artist")),
		Track:          decodeCorrectable(np.Get("track")),
		Album:          decodeCorrectable(np.Get("album")),
		AlbumArtist:    decodeCorrectable(np.Get("albumArtist")),
		IgnoredMessage: decodeIgnored(np.Get("ignoredMessage")),
	}, nil
}

// decodeScrobbles handles both shapes of "scrobble": an object for a single
// submission and an array for a batch.
func decodeScrobbles(body string) (*ScrobbleResponse, error) {
	root, err := parseResponse(body)
	if err != nil {
		return nil, err
	}

	scrobbles := root.Get("scrobbles")
	if !scrobbles.IsObject() {
		return nil, fmt.Errorf("%w: missing scrobbles object", ErrMalformedResponse)
	}

	// "@attr" is a gjson modifier prefix, so it is looked up through Map.
	attr := scrobbles.Map()["@attr"]
	resp := &ScrobbleResponse{
		Accepted: int(attr.Get("accepted").Int()),
		Ignored:  int(attr.Get("ignored").Int()),
	}

	var items []gjson.Result
	switch s := scrobbles.Get("scrobble"); {
	case s.IsArray():
		items = s.Array()
	case s.IsObject():
		items = []gjson.Result{s}
	}

	for _, item := range items {
		resp.Scrobbles = append(resp.Scrobbles, ScrobbleResult{
			Artist:         decodeCorrectable(item.Get("artist")),
			Track:          decodeCorrectable(item.Get("track")),
			Album:          decodeCorrectable(item.Get("album")),
			AlbumArtist:    decodeCorrectable(item.Get("albumArtist")),
			Timestamp:      item.Get("timestamp").Int(),
			IgnoredMessage: decodeIgnored(item.Get("ignoredMessage")),
		})
	}

	return resp, nil
}

func decodeCorrectable(r gjson.Result) CorrectableString {
	if r.Type == gjson.String {
		return CorrectableString{Text: r.String()}
	}
	fields := r.Map()
	return CorrectableString{
		Text:      fields["#text"].String(),
		Corrected: fields["corrected"].String() == "1",
	}
}

func decodeIgnored(r gjson.Result) IgnoredMessage {
	fields := r.Map()
	return IgnoredMessage{
		Code: int(fields["code"].Int()),
		Text: fields["#text"].String(),
	}
}
