package clientstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Paul200287/GradeTracker/clientstore"
	"github.com/Paul200287/GradeTracker/users"
	"github.com/stretchr/testify/require"
)

const testToken = "opaque-access-token"

func testUser() *users.User {
	return &users.User{ID: 7, Username: "jdoe", Email: "jdoe@example.com", Role: users.RoleEditor}
}

// brokenStorage fails every operation.
type brokenStorage struct{}

var errBroken = errors.New("storage unavailable")

func (brokenStorage) GetItem(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (brokenStorage) SetItem(context.Context, string, string) error         { return errBroken }
func (brokenStorage) RemoveItem(context.Context, string) error              { return errBroken }

func TestStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	storage := clientstore.NewMemoryStorage()
	store := clientstore.New(storage)

	_, ok := store.Get(ctx)
	require.False(t, ok)

	store.Set(ctx, testToken, testUser())

	entry, ok := store.Get(ctx)
	require.True(t, ok)
	require.Equal(t, testToken, entry.Token)
	require.Equal(t, testUser(), entry.User)

	raw, ok, err := storage.GetItem(ctx, clientstore.UserKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"id":7,"username":"jdoe","email":"jdoe@example.com","role":"Editor"}`, raw)

	store.Clear(ctx)
	_, ok = store.Get(ctx)
	require.False(t, ok)
	require.Zero(t, storage.Len())
}

func TestStore_SetWithoutUserDropsStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	store := clientstore.New(clientstore.NewMemoryStorage())

	store.Set(ctx, "first", testUser())
	store.Set(ctx, "second", nil)

	entry, ok := store.Get(ctx)
	require.True(t, ok)
	require.Equal(t, "second", entry.Token)
	require.Nil(t, entry.User)
}

func TestStore_SetUserKeepsToken(t *testing.T) {
	ctx := context.Background()
	store := clientstore.New(clientstore.NewMemoryStorage())
	store.Set(ctx, testToken, &users.User{Email: "jdoe@example.com"})

	store.SetUser(ctx, testUser())

	entry, ok := store.Get(ctx)
	require.True(t, ok)
	require.Equal(t, testToken, entry.Token)
	require.Equal(t, 7, entry.User.ID)
}

func TestStore_SnapshotWithoutToken(t *testing.T) {
	ctx := context.Background()
	storage := clientstore.NewMemoryStorage()
	require.NoError(t, storage.SetItem(ctx, clientstore.UserKey, `{"id":1}`))

	_, ok := clientstore.New(storage).Get(ctx)
	require.False(t, ok)
}

func TestStore_CorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	storage := clientstore.NewMemoryStorage()
	require.NoError(t, storage.SetItem(ctx, clientstore.TokenKey, testToken))
	require.NoError(t, storage.SetItem(ctx, clientstore.UserKey, `{not json`))

	entry, ok := clientstore.New(storage).Get(ctx)
	require.True(t, ok)
	require.Equal(t, testToken, entry.Token)
	require.Nil(t, entry.User)
}

func TestStore_WithoutStorage(t *testing.T) {
	ctx := context.Background()

	stores := map[string]*clientstore.Store{
		"nil storage": clientstore.New(nil),
		"nil store":   nil,
		"namespace":   clientstore.New(clientstore.Namespace(nil, "sid")),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				store.Set(ctx, testToken, testUser())
				store.SetUser(ctx, testUser())
				store.Clear(ctx)
			})
			_, ok := store.Get(ctx)
			require.False(t, ok)
			_, ok = store.User(ctx)
			require.False(t, ok)
		})
	}
}

func TestStore_FailingStorageReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := clientstore.New(brokenStorage{})

	require.NotPanics(t, func() {
		store.Set(ctx, testToken, testUser())
		store.Clear(ctx)
	})
	_, ok := store.Get(ctx)
	require.False(t, ok)
}

func TestNamespace_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	storage := clientstore.NewMemoryStorage()
	alice := clientstore.New(clientstore.Namespace(storage, "session-a"))
	bob := clientstore.New(clientstore.Namespace(storage, "session-b"))

	alice.Set(ctx, "token-a", nil)
	bob.Set(ctx, "token-b", nil)

	tok, ok := alice.Token(ctx)
	require.True(t, ok)
	require.Equal(t, "token-a", tok)

	alice.Clear(ctx)
	_, ok = alice.Token(ctx)
	require.False(t, ok)

	tok, ok = bob.Token(ctx)
	require.True(t, ok)
	require.Equal(t, "token-b", tok)

	_, ok, err := storage.GetItem(ctx, "session-b:"+clientstore.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
}
