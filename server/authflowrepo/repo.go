package authflowrepo

import (
	"errors"
	"time"
)

var ErrStateNotFound = errors.New("auth flow state not found")

// AuthFlowState is what the console remembers between sending the browser to
// the identity provider and receiving the callback.
type AuthFlowState struct {
	CodeVerifier string
	Nonce        string
	ReturnURL    string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	// Take returns the state and removes it, so a callback can be redeemed once.
	Take(state string) (*AuthFlowState, error)
}
