package clientstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/Paul200287/GradeTracker/clientstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)

	storage := clientstore.NewRedisStorage(client, clientstore.WithKeyPrefix("test"), clientstore.WithItemTTL(time.Hour))
	store := clientstore.New(clientstore.Namespace(storage, "sid-1"))

	store.Set(ctx, testToken, testUser())

	require.True(t, mr.Exists("test:sid-1:"+clientstore.TokenKey))
	require.Equal(t, time.Hour, mr.TTL("test:sid-1:"+clientstore.TokenKey))

	entry, ok := store.Get(ctx)
	require.True(t, ok)
	require.Equal(t, testToken, entry.Token)
	require.Equal(t, testUser(), entry.User)

	store.Clear(ctx)
	require.False(t, mr.Exists("test:sid-1:"+clientstore.TokenKey))
	require.False(t, mr.Exists("test:sid-1:"+clientstore.UserKey))
}

func TestRedisStorage_ItemsExpire(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)

	store := clientstore.New(clientstore.NewRedisStorage(client, clientstore.WithItemTTL(time.Minute)))
	store.Set(ctx, testToken, nil)

	mr.FastForward(2 * time.Minute)

	_, ok := store.Get(ctx)
	require.False(t, ok)
}

func TestRedisStorage_RenewRestartsExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)

	store := clientstore.New(clientstore.NewRedisStorage(client, clientstore.WithKeyPrefix("renew"), clientstore.WithItemTTL(time.Hour)))
	require.False(t, store.Renew(ctx))

	store.Set(ctx, testToken, testUser())
	mr.FastForward(50 * time.Minute)
	require.True(t, store.Renew(ctx))
	require.Equal(t, time.Hour, mr.TTL("renew:"+clientstore.TokenKey))
	require.Equal(t, time.Hour, mr.TTL("renew:"+clientstore.UserKey))

	mr.FastForward(50 * time.Minute)
	entry, ok := store.Get(ctx)
	require.True(t, ok)
	require.Equal(t, testToken, entry.Token)
	require.Equal(t, testUser(), entry.User)
}

func TestRedisStorage_UnavailableReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := clientstore.New(clientstore.NewRedisStorage(client))
	store.Set(ctx, testToken, nil)

	mr.Close()

	_, ok := store.Get(ctx)
	require.False(t, ok)
}

func TestDialRedis(t *testing.T) {
	mr, _ := newTestRedis(t)

	client, err := clientstore.DialRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = clientstore.DialRedis(context.Background(), mr.Addr(), "", 0)
	require.Error(t, err)
}
