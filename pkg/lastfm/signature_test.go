package lastfm

import (
	"crypto/md5"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var hexSignature = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params map[string]string
		method string
		secret string
		want   string
	}{
		{
			name:   "mobile session",
			params: map[string]string{"api_key": "key", "username": "u"},
			method: "auth.getMobileSession",
			secret: "secret",
			want:   "000891202ac87e30dd8283c59c6a7cfa",
		},
		{
			name:   "empty params signs method and secret",
			params: map[string]string{},
			method: "track.scrobble",
			secret: "secret",
			want:   "8c2ee45bad1b7c6ff2ecbab8c23c8335",
		},
		{
			name:   "nil params",
			params: nil,
			method: "track.scrobble",
			secret: "secret",
			want:   "8c2ee45bad1b7c6ff2ecbab8c23c8335",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sign(tt.params, tt.method, tt.secret, MD5)
			require.Equal(t, tt.want, got)
			require.Regexp(t, hexSignature, got)
		})
	}
}

func TestSignDeterministic(t *testing.T) {
	t.Parallel()

	params := map[string]string{"api_key": "key", "username": "u"}
	first := Sign(params, "auth.getMobileSession", "secret", MD5)
	second := Sign(params, "auth.getMobileSession", "secret", MD5)
	require.Equal(t, first, second)
	require.Len(t, first, 32)
}

func TestSignInsertionOrder(t *testing.T) {
	t.Parallel()

	keys := []string{"artist[0]", "track[0]", "timestamp[0]", "api_key", "sk", "album[0]"}
	values := map[string]string{
		"artist[0]":    "Los Campesinos!",
		"track[0]":     "Selling Rope",
		"timestamp[0]": "1700000000",
		"api_key":      "key",
		"sk":           "session",
		"album[0]":     "No Blues",
	}

	forward := make(map[string]string)
	for _, k := range keys {
		forward[k] = values[k]
	}
	backward := make(map[string]string)
	for i := len(keys) - 1; i >= 0; i-- {
		backward[keys[i]] = values[keys[i]]
	}

	require.Equal(t,
		Sign(forward, "track.scrobble", "secret", MD5),
		Sign(backward, "track.scrobble", "secret", MD5),
	)
}

func TestSignValueChange(t *testing.T) {
	t.Parallel()

	base := Sign(map[string]string{"api_key": "key", "username": "u"}, "auth.getMobileSession", "secret", MD5)

	require.NotEqual(t, base, Sign(map[string]string{"api_key": "key", "username": "v"}, "auth.getMobileSession", "secret", MD5))
	require.NotEqual(t, base, Sign(map[string]string{"api_key": "key", "username": "u"}, "auth.getSession", "secret", MD5))
	require.NotEqual(t, base, Sign(map[string]string{"api_key": "key", "username": "u"}, "auth.getMobileSession", "secres", MD5))
}

func TestSignDoesNotMutateParams(t *testing.T) {
	t.Parallel()

	params := map[string]string{"api_key": "key"}
	Sign(params, "auth.getToken", "secret", MD5)
	require.Equal(t, map[string]string{"api_key": "key"}, params)
}

func TestSignMethodOverridesParam(t *testing.T) {
	t.Parallel()

	withMethod := Sign(map[string]string{"api_key": "key", "method": "bogus"}, "auth.getToken", "secret", MD5)
	without := Sign(map[string]string{"api_key": "key"}, "auth.getToken", "secret", MD5)
	require.Equal(t, without, withMethod)
}

func TestSignCustomDigest(t *testing.T) {
	t.Parallel()

	var seen string
	digest := DigestFunc(func(data []byte) [16]byte {
		seen = string(data)
		return md5.Sum(data)
	})

	got := Sign(map[string]string{"sk": "s", "api_key": "k"}, "track.scrobble", "secret", digest)
	require.Equal(t, "api_keykmethodtrack.scrobbleskssecret", seen)
	require.Equal(t, Sign(map[string]string{"sk": "s", "api_key": "k"}, "track.scrobble", "secret", MD5), got)
}
