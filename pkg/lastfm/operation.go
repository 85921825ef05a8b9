package lastfm

// Operation identifies a remote Last.fm API method.
type Operation int

const (
	// OpAuthWebSession exchanges an authorized token for a session (auth.getSession).
	OpAuthWebSession Operation = iota
	// OpAuthMobileSession exchanges a username and password for a session (auth.getMobileSession).
	OpAuthMobileSession
	// OpNowPlaying updates the user's now playing track (track.updateNowPlaying).
	OpNowPlaying
	// OpScrobble submits one or more played tracks (track.scrobble).
	OpScrobble
	// OpAuthToken requests an unauthorized token for the web flow (auth.getToken).
	OpAuthToken
)

var operationMethods = map[Operation]string{
	OpAuthWebSession:    "auth.getSession",
	OpAuthMobileSession: "auth.getMobileSession",
	OpNowPlaying:        "track.updateNowPlaying",
	OpScrobble:          "track.scrobble",
	OpAuthToken:         "auth.getToken",
}

// Method returns the remote method name sent as the "method" parameter.
func (o Operation) Method() string {
	if m, ok := operationMethods[o]; ok {
		return m
	}
	return ""
}

// String implements fmt.Stringer.
func (o Operation) String() string {
	return o.Method()
}
