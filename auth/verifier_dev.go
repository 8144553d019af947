package auth

import (
	"context"
	"strings"

	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/Paul200287/GradeTracker/users"
)

const (
	DevEmail    = "demo@example.com"
	DevPassword = "password"
)

// DevVerifier accepts the single demo account. Only wired in development.
type DevVerifier struct {
	user         users.User
	passwordHash string
}

func NewDevVerifier() (*DevVerifier, error) {
	hash, err := users.HashPassword(DevPassword)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[auth NewDevVerifier] failed to hash demo password")
	}
	return &DevVerifier{
		user: users.User{
			ID:       1,
			Username: "Demo User",
			Email:    DevEmail,
			Role:     users.RoleEditor,
		},
		passwordHash: hash,
	}, nil
}

func (d *DevVerifier) Verify(_ context.Context, email, password string) (Identity, error) {
	if !strings.EqualFold(email, d.user.Email) || !users.CheckPasswordHash(password, d.passwordHash) {
		return Identity{}, apperrors.ErrInvalidCredentials
	}
	user := d.user
	return Identity{User: &user}, nil
}
