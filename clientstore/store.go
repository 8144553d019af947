package clientstore

import (
	"context"
	"encoding/json"

	"github.com/Paul200287/GradeTracker/users"
	"github.com/rs/zerolog/log"
)

// Keys of the two persisted entries.
const (
	TokenKey = "jwt_token"
	UserKey  = "user_data"
)

// Entry is the cached client credential. User may be nil when no snapshot was stored.
type Entry struct {
	Token string
	User  *users.User
}

// Store holds the backend access token and the user snapshot. It never talks
// to the network and never inspects the token. Storage failures are logged
// and reported as absent, so callers only ever see present or absent.
type Store struct {
	storage Storage
}

// New wraps storage. A nil storage gives a store where every read is absent
// and every write is a no-op.
func New(storage Storage) *Store {
	return &Store{storage: storage}
}

func (s *Store) available() bool {
	return s != nil && s.storage != nil
}

// Set replaces the token and snapshot. A nil user removes any stale snapshot.
func (s *Store) Set(ctx context.Context, token string, user *users.User) {
	if !s.available() {
		return
	}
	if err := s.storage.SetItem(ctx, TokenKey, token); err != nil {
		log.Warn().Err(err).Msg("Failed to store access token")
		return
	}
	s.SetUser(ctx, user)
}

// SetUser replaces only the snapshot, e.g. after a profile refresh.
func (s *Store) SetUser(ctx context.Context, user *users.User) {
	if !s.available() {
		return
	}
	if user == nil {
		s.remove(ctx, UserKey)
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode user snapshot")
		return
	}
	if err := s.storage.SetItem(ctx, UserKey, string(data)); err != nil {
		log.Warn().Err(err).Msg("Failed to store user snapshot")
	}
}

// Get returns the token and snapshot, or false when no token is stored.
func (s *Store) Get(ctx context.Context) (Entry, bool) {
	tok, ok := s.Token(ctx)
	if !ok {
		return Entry{}, false
	}
	user, _ := s.User(ctx)
	return Entry{Token: tok, User: user}, true
}

// Renew writes the current entry back unchanged, restarting any storage-side
// expiry. It reports false when nothing is stored.
func (s *Store) Renew(ctx context.Context) bool {
	entry, ok := s.Get(ctx)
	if !ok {
		return false
	}
	s.Set(ctx, entry.Token, entry.User)
	return true
}

// Token returns the stored access token.
func (s *Store) Token(ctx context.Context) (string, bool) {
	if !s.available() {
		return "", false
	}
	tok, ok, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read access token")
		return "", false
	}
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// User returns the cached snapshot. A corrupt snapshot reads as absent.
func (s *Store) User(ctx context.Context) (*users.User, bool) {
	if !s.available() {
		return nil, false
	}
	raw, ok, err := s.storage.GetItem(ctx, UserKey)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read user snapshot")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var user users.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Warn().Err(err).Msg("Failed to decode user snapshot")
		return nil, false
	}
	return &user, true
}

// Clear removes both entries.
func (s *Store) Clear(ctx context.Context) {
	if !s.available() {
		return
	}
	s.remove(ctx, TokenKey)
	s.remove(ctx, UserKey)
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.storage.RemoveItem(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to remove client store entry")
	}
}
