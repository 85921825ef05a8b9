package lastfm

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Digest computes the 128-bit hash used for request signatures.
type Digest interface {
	Sum128(data []byte) [16]byte
}

// DigestFunc adapts a plain function to the Digest interface.
type DigestFunc func(data []byte) [16]byte

// Sum128 calls f(data).
func (f DigestFunc) Sum128(data []byte) [16]byte {
	return f(data)
}

// MD5 is the digest Last.fm validates signatures with.
var MD5 Digest = DigestFunc(md5.Sum)

// Sign generates the api_sig value for a Last.fm API request.
//
// The signature is calculated by:
//  1. Adding the "method" parameter to the request parameters
//  2. Sorting parameter keys byte-wise
//  3. Concatenating key+value pairs (e.g., "keyAvalueAkeyBvalueB")
//  4. Appending the API secret
//  5. Hashing the result and hex encoding it in lowercase
//
// Keys and values are concatenated without delimiters or escaping, exactly
// as the Last.fm servers do it. params is not modified.
func Sign(params map[string]string, method, secret string, d Digest) string {
	if d == nil {
		d = MD5
	}

	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed["method"] = method

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteString(signed[k])
	}
	sb.WriteString(secret)

	sum := d.Sum128([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
