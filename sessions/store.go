package sessions

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Paul200287/GradeTracker/token"
)

// DefaultTTL is the lifetime of a session from issuance or refresh.
const DefaultTTL = 7 * 24 * time.Hour

// Codec is the part of the token codec the store depends on.
type Codec interface {
	Issue(subjectID string, ttl time.Duration) (string, error)
	Reissue(p token.Payload, ttl time.Duration) (string, error)
	Verify(raw string) (token.Payload, bool)
}

// Store owns the lifecycle of the session cookie. No other component writes it.
type Store struct {
	codec      Codec
	cookieName string
	ttl        time.Duration
	secure     bool
}

type StoreOption func(*Store)

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func WithCookieName(name string) StoreOption {
	return func(s *Store) {
		s.cookieName = name
	}
}

// WithSecureCookies sets the Secure attribute; disabled only in development.
func WithSecureCookies(secure bool) StoreOption {
	return func(s *Store) {
		s.secure = secure
	}
}

func NewStore(codec Codec, options ...StoreOption) *Store {
	s := &Store{
		codec:      codec,
		cookieName: "session",
		ttl:        DefaultTTL,
		secure:     true,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// CookieName returns the name of the session cookie.
func (s *Store) CookieName() string {
	return s.cookieName
}

// Create issues a new session for subjectID and sets the cookie.
func (s *Store) Create(w http.ResponseWriter, subjectID string) (token.Payload, error) {
	raw, err := s.codec.Issue(subjectID, s.ttl)
	if err != nil {
		return token.Payload{}, fmt.Errorf("[sessions Create] failed to issue session token: %w", err)
	}
	return s.write(w, raw)
}

// Read returns the verified session carried by r. Absent, expired and tampered
// cookies are all reported as no session.
func (s *Store) Read(r *http.Request) (token.Payload, bool) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return token.Payload{}, false
	}
	return s.codec.Verify(cookie.Value)
}

// Refresh re-issues the current session with a renewed expiry. It writes
// nothing when r carries no valid session.
func (s *Store) Refresh(w http.ResponseWriter, r *http.Request) (token.Payload, bool) {
	current, ok := s.Read(r)
	if !ok {
		return token.Payload{}, false
	}

	raw, err := s.codec.Reissue(current, s.ttl)
	if err != nil {
		return token.Payload{}, false
	}
	renewed, err := s.write(w, raw)
	if err != nil {
		return token.Payload{}, false
	}
	return renewed, true
}

// Destroy expires the session cookie. Calling it repeatedly has the same effect as once.
func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// Check is the capability accessor for page-entry code: it never redirects,
// the caller decides what an Unauthorized result means.
func (s *Store) Check(r *http.Request) Result {
	if p, ok := s.Read(r); ok {
		return Authorized(p)
	}
	return Unauthorized()
}

func (s *Store) write(w http.ResponseWriter, raw string) (token.Payload, error) {
	p, ok := s.codec.Verify(raw)
	if !ok {
		return token.Payload{}, fmt.Errorf("[sessions write] freshly issued token failed verification")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    raw,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  p.ExpiresAt,
	})
	return p, nil
}
