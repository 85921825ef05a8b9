package lastfm

// Identity is the user identity exchanged for a session key. It is either
// UserCredentials (auth.getMobileSession) or UserToken (auth.getSession).
type Identity interface {
	isIdentity()
}

// UserCredentials is a Last.fm username and password.
type UserCredentials struct {
	Username string
	Password string
}

func (UserCredentials) isIdentity() {}

// UserToken is a token the user has authorized through the Last.fm website.
type UserToken string

func (UserToken) isIdentity() {}

// Credentials holds the API identity, the user identity and the session key
// of a single client. It is not safe for concurrent use.
type Credentials struct {
	apiKey     string
	apiSecret  string
	identity   Identity
	sessionKey string
	digest     Digest
}

// NewCredentials returns credentials holding only the API key and secret.
func NewCredentials(apiKey, apiSecret string) *Credentials {
	return &Credentials{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		digest:    MD5,
	}
}

// WithDigest replaces the hash used by Signature.
func (c *Credentials) WithDigest(d Digest) *Credentials {
	c.digest = d
	return c
}

// APIKey returns the application API key.
func (c *Credentials) APIKey() string {
	return c.apiKey
}

// Identity returns the current user identity, or nil if none is set.
func (c *Credentials) Identity() Identity {
	return c.identity
}

// SetUserCredentials replaces the identity with a username and password
// and drops any session key.
func (c *Credentials) SetUserCredentials(username, password string) {
	c.identity = UserCredentials{Username: username, Password: password}
	c.sessionKey = ""
}

// SetUserToken replaces the identity with an authorized token and drops any
// session key.
func (c *Credentials) SetUserToken(token string) {
	c.identity = UserToken(token)
	c.sessionKey = ""
}

// SetSessionKey stores a session key issued by Last.fm, typically one saved
// from an earlier authentication. An empty key clears the session.
func (c *Credentials) SetSessionKey(key string) {
	c.sessionKey = key
}

// SessionKey returns the session key and whether one is set.
func (c *Credentials) SessionKey() (string, bool) {
	return c.sessionKey, c.sessionKey != ""
}

// IsAuthenticated reports whether a session key is set.
func (c *Credentials) IsAuthenticated() bool {
	return c.sessionKey != ""
}

// AuthRequestParams returns the parameters of an auth.getMobileSession or
// auth.getSession request for the current identity.
func (c *Credentials) AuthRequestParams() (map[string]string, error) {
	if c.identity == nil {
		return nil, ErrMissingIdentity
	}
	if c.apiKey == "" || c.apiSecret == "" {
		return nil, ErrInvalidClientCredentials
	}

	params := map[string]string{"api_key": c.apiKey}

	switch id := c.identity.(type) {
	case UserCredentials:
		if id.Username == "" || id.Password == "" {
			return nil, ErrIncompleteUserCredentials
		}
		params["username"] = id.Username
		params["password"] = id.Password
	case UserToken:
		if id == "" {
			return nil, ErrIncompleteUserCredentials
		}
		params["token"] = string(id)
	}

	return params, nil
}

// RequestParams returns the parameters common to every authenticated call.
// sk is empty when no session key is set; the dispatcher rejects such calls
// before they reach the network.
func (c *Credentials) RequestParams() map[string]string {
	return map[string]string{
		"api_key": c.apiKey,
		"sk":      c.sessionKey,
	}
}

// Signature signs params for method with the API secret.
func (c *Credentials) Signature(method string, params map[string]string) string {
	return Sign(params, method, c.apiSecret, c.digest)
}
