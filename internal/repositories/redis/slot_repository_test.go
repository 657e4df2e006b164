package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/besteats/internal/repositories"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSlotRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	repo := NewSlotRepository(client, "alice")

	_, err := repo.Load(ctx, "cart")
	assert.ErrorIs(t, err, repositories.ErrSlotNotFound)

	require.NoError(t, repo.Save(ctx, "cart", []byte(`[{"qty":3}]`)))

	got, err := repo.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"qty":3}]`, string(got))

	stored, err := mr.Get("besteats:alice:cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"qty":3}]`, stored)
}

func TestSlotRepositoryProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	_, client := setupTestRedis(t)

	alice := NewSlotRepository(client, "alice")
	bob := NewSlotRepository(client, "bob")

	require.NoError(t, alice.Save(ctx, "favorites", []byte(`[1]`)))
	_, err := bob.Load(ctx, "favorites")
	assert.ErrorIs(t, err, repositories.ErrSlotNotFound)
}

func TestConnect(t *testing.T) {
	mr, _ := setupTestRedis(t)

	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	client.Close()

	_, err = Connect(context.Background(), "not a url")
	assert.Error(t, err)
}
