package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/flowmap/pkg/adapters/redis"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLayoutStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunLayoutStoreContract(t, redis.NewFromClient(client))
}

func TestRedisLayoutStore_TTL(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	err := store.SaveLayout(ctx, "wf-ttl", domain.PositionsMap{"a": {X: 1, Y: 2}})
	require.NoError(t, err)

	ids, err := store.ListLayouts(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "wf-ttl")

	// Key expiration is driven by miniredis time.
	mr.FastForward(2 * time.Second)

	_, err = store.LoadLayout(ctx, "wf-ttl")
	assert.ErrorIs(t, err, domain.ErrLayoutNotFound)

	// Index pruning relies on wall clock time.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.ListLayouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisLayoutStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.SaveLayout(ctx, "orders", domain.PositionsMap{"new": {}}))

	assert.True(t, mr.Exists("custom:app:wf:orders"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	// A workflow literally named "index" does not clash with the index key.
	require.NoError(t, store.SaveLayout(ctx, "index", domain.PositionsMap{"a": {}}))
	ids, err := store.ListLayouts(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"orders", "index"}, ids)
}

func TestRedisLayoutStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"wf:broken", "{not json"))

	_, err := store.LoadLayout(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrLayoutNotFound)
}
