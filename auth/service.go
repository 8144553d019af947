package auth

import (
	"context"
	"strings"

	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/Paul200287/GradeTracker/internal/validation"
	"github.com/Paul200287/GradeTracker/users"
	"github.com/rs/zerolog/log"
)

// Identity is the outcome of a successful login: the backend access token and
// the user it belongs to. AccessToken may be empty for identities the backend
// never issued a token for.
type Identity struct {
	User        *users.User
	AccessToken string
}

// Verifier checks a credential pair against some authority.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (Identity, error)
}

// Service is the single login operation both consoles go through.
type Service struct {
	verifier  Verifier
	validator *validation.Validator
}

func NewService(verifier Verifier) *Service {
	return &Service{
		verifier:  verifier,
		validator: validation.New(),
	}
}

// Login validates the input and asks the verifier. A rejected pair yields
// apperrors.ErrInvalidCredentials; blank fields yield apperrors.ErrMissingCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Identity, error) {
	creds := Credentials{Email: strings.TrimSpace(email), Password: password}
	if creds.Email == "" || creds.Password == "" {
		return Identity{}, apperrors.ErrMissingCredentials
	}
	if err := s.validator.Struct(creds); err != nil {
		return Identity{}, err
	}

	identity, err := s.verifier.Verify(ctx, creds.Email, creds.Password)
	if err != nil {
		log.Info().Err(err).Str("email", creds.Email).Msg("Login failed")
		return Identity{}, err
	}
	if identity.User == nil {
		identity.User = &users.User{Email: creds.Email}
	}

	log.Info().Str("subject", identity.User.SubjectID()).Msg("Login succeeded")
	return identity, nil
}
