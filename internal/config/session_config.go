package config

import "time"

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetSessionCookieName() string
}

// DefaultSessionSecret is the insecure fallback used when SESSION_SECRET is
// unset. Startup logs a warning when it is in effect.
const DefaultSessionSecret = "dashboard-secret-key"

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionSecret() string {
	return GetEnv("SESSION_SECRET", DefaultSessionSecret)
}

func (Session) GetSessionTTL() time.Duration {
	return 24 * time.Hour // Sessions expire after a day
}

func (Session) GetSessionCookieName() string {
	return GetEnv("SESSION_COOKIE_NAME", "board_session")
}
