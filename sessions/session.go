// Package sessions holds per-browser server-side state: the transient OAuth
// state value issued at login and, after a successful callback, the user's
// access token and identity projection.
package sessions

import "time"

// Identity is the minimal profile committed to the session after login.
type Identity struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar"`
	Discriminator string `json:"discriminator"`
}

// Session is the record stored server-side, keyed by an opaque session ID
// delivered to the browser in a signed cookie.
//
// AccessToken and User are set together or not at all; a record with only one
// of the two never reaches the store.
type Session struct {
	ID          string
	OAuthState  string
	AccessToken string
	User        *Identity
	CreatedAt   time.Time
}

// Authenticated reports whether the session carries committed credentials.
// Both fields gate it so a half-written record can never pass as logged in.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.User != nil
}
