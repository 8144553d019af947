package config

import (
	"crypto/rand"
	"time"
)

const (
	sessionSecretEnvVar = "SESSION_SECRET"
	sessionTTLEnvVar    = "SESSION_TTL"

	SessionCookieName = "session"
	DefaultSessionTTL = 7 * 24 * time.Hour
)

type SessionConfig interface {
	// GetSessionSecret returns the signing secret and whether it came from the environment.
	GetSessionSecret() ([]byte, bool)
	GetSessionTTL() time.Duration
	GetSessionCookieName() string
	GetSecureCookies() bool
}

type Session struct {
	EnvVars
	devSecret []byte
}

var _ SessionConfig = (*Session)(nil)

func newSession() *Session {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("config: unable to generate development session secret: " + err.Error())
	}
	return &Session{devSecret: secret}
}

// GetSessionSecret never falls back to a fixed value. Outside the environment
// the secret is random per process, so sessions do not survive a restart.
func (s *Session) GetSessionSecret() ([]byte, bool) {
	if secret := GetEnv(sessionSecretEnvVar, ""); secret != "" {
		return []byte(secret), true
	}
	return s.devSecret, false
}

func (s *Session) GetSessionTTL() time.Duration {
	return GetEnvDuration(sessionTTLEnvVar, DefaultSessionTTL)
}

func (s *Session) GetSessionCookieName() string {
	return SessionCookieName
}

// GetSecureCookies marks cookies Secure everywhere except development.
func (s *Session) GetSecureCookies() bool {
	return !s.IsDevelopment()
}
