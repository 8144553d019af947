package authflowrepo

import (
	"errors"
	"sync"
	"time"
)

// DefaultMaxAge is how long a user has to complete sign-in at the provider.
const DefaultMaxAge = 10 * time.Minute

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface.
// Entries older than maxAge are treated as absent and swept on write.
type InMemoryRepo struct {
	mu     sync.Mutex
	states map[string]*AuthFlowState
	maxAge time.Duration
	now    func() time.Time
}

type Option func(*InMemoryRepo)

func WithMaxAge(d time.Duration) Option {
	return func(r *InMemoryRepo) {
		r.maxAge = d
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(r *InMemoryRepo) {
		r.now = now
	}
}

// NewInMemoryRepo creates a new in-memory auth flow state repository
func NewInMemoryRepo(options ...Option) *InMemoryRepo {
	r := &InMemoryRepo{
		states: make(map[string]*AuthFlowState),
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Upsert stores or updates an auth flow state
func (r *InMemoryRepo) Upsert(state string, authState *AuthFlowState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()
	stored := *authState
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	r.states[state] = &stored
	return nil
}

// Take returns the state and removes it. Expired entries are removed too.
func (r *InMemoryRepo) Take(state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	authState, exists := r.states[state]
	delete(r.states, state)
	if !exists || r.expired(authState) {
		return nil, ErrStateNotFound
	}
	return authState, nil
}

func (r *InMemoryRepo) expired(s *AuthFlowState) bool {
	return r.maxAge > 0 && r.now().Sub(s.CreatedAt) > r.maxAge
}

// sweep drops expired entries; callers hold the write lock.
func (r *InMemoryRepo) sweep() {
	for k, s := range r.states {
		if r.expired(s) {
			delete(r.states, k)
		}
	}
}
