package types

import "time"

// Session is the access/refresh credential pair handed to clients. It is the
// exact shape serialized into the session cookie and into client storage.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Expiry returns the expiry instant of the session.
func (s Session) Expiry() time.Time {
	return time.Unix(s.ExpiresAt, 0)
}

// IsZero reports whether the session carries no credentials.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}
