package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Payload is the verified content of a session token.
type Payload struct {
	SubjectID string    // Opaque user identifier
	ExpiresAt time.Time // Absolute expiry
	IssuedAt  time.Time
	ID        string // Token ID, stable across refreshes
}

// sessionClaims carries the expiry at millisecond precision next to the
// whole-second exp claim, so two issuances within one second stay ordered.
type sessionClaims struct {
	jwt.RegisteredClaims
	ExpiresAtMillis int64 `json:"expires_at,omitempty"`
}

// Codec issues and verifies compact signed session tokens.
type Codec struct {
	signer  Signer
	parser  *jwt.Parser
	nowFunc func() time.Time
	verbose bool
}

type CodecOption func(*Codec)

// WithNowFunc overrides the clock used for issuance and expiry checks.
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

// WithVerboseFailures logs every verification failure at debug level.
// Enabled outside production only.
func WithVerboseFailures(verbose bool) CodecOption {
	return func(c *Codec) {
		c.verbose = verbose
	}
}

// NewCodec creates a codec signing with HS256 over secret.
func NewCodec(secret []byte, options ...CodecOption) (*Codec, error) {
	signer, err := NewHMACSigner(secret)
	if err != nil {
		return nil, fmt.Errorf("[token NewCodec] %w", err)
	}

	c := &Codec{
		signer:  signer,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.nowFunc),
	)
	return c, nil
}

// Issue produces a token for subjectID expiring ttl from now.
func (c *Codec) Issue(subjectID string, ttl time.Duration) (string, error) {
	return c.issue(Payload{SubjectID: subjectID, ID: uuid.New().String()}, ttl)
}

// Reissue signs a copy of p with a renewed expiry. Subject and token ID are kept.
// The new expiry is always strictly later than p.ExpiresAt.
func (c *Codec) Reissue(p Payload, ttl time.Duration) (string, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return c.issue(p, ttl)
}

func (c *Codec) issue(p Payload, ttl time.Duration) (string, error) {
	if p.SubjectID == "" {
		return "", errors.New("subject id is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("ttl must be positive, got %s", ttl)
	}

	now := c.nowFunc()
	expiresAt := now.Add(ttl).Truncate(time.Millisecond)
	if !p.ExpiresAt.IsZero() && !expiresAt.After(p.ExpiresAt) {
		expiresAt = p.ExpiresAt.Truncate(time.Millisecond).Add(time.Millisecond)
	}

	// exp is rounded up so the registered claim never expires before expires_at.
	exp := expiresAt.Truncate(time.Second)
	if exp.Before(expiresAt) {
		exp = exp.Add(time.Second)
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.SubjectID,
			ID:        p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		ExpiresAtMillis: expiresAt.UnixMilli(),
	}
	return c.signer.Sign(claims)
}

// Verify returns the payload of a token that is well formed, HS256 signed with
// the codec secret and not yet expired. Any failure yields false.
func (c *Codec) Verify(raw string) (Payload, bool) {
	if raw == "" {
		return Payload{}, false
	}

	claims := &sessionClaims{}
	if _, err := c.parser.ParseWithClaims(raw, claims, c.signer.GetVerificationKey); err != nil {
		c.logFailure(err)
		return Payload{}, false
	}
	if claims.Subject == "" {
		c.logFailure(errors.New("token has no subject"))
		return Payload{}, false
	}

	expiresAt := claims.ExpiresAt.Time
	if claims.ExpiresAtMillis > 0 {
		expiresAt = time.UnixMilli(claims.ExpiresAtMillis)
	}
	if !c.nowFunc().Before(expiresAt) {
		c.logFailure(errors.New("token is expired"))
		return Payload{}, false
	}

	p := Payload{
		SubjectID: claims.Subject,
		ExpiresAt: expiresAt,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	return p, true
}

func (c *Codec) logFailure(err error) {
	if !c.verbose {
		return
	}
	log.Debug().Err(err).Msg("Failed to verify session token")
}
