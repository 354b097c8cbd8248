package secrets

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStoreSeed(t *testing.T) {
	t.Setenv("SECRET_SEED_JSON", `{"productflow--client-id":"seeded"}`)

	s := NewMemoryStoreFromEnv(zap.NewNop().Sugar())
	v, err := s.Get(context.Background(), "productflow--client-id")
	require.NoError(t, err)
	require.Equal(t, "seeded", v)

	_, err = s.Get(context.Background(), "productflow--other")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreBadSeed(t *testing.T) {
	t.Setenv("SECRET_SEED_JSON", `not json`)

	s := NewMemoryStoreFromEnv(zap.NewNop().Sugar())
	_, err := s.Get(context.Background(), "anything")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Set("secret:productflow--user-password", "pw-from-redis")

	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(cli)

	v, err := s.Get(context.Background(), "productflow--user-password")
	require.NoError(t, err)
	require.Equal(t, "pw-from-redis", v)

	_, err = s.Get(context.Background(), "productflow--missing")
	require.ErrorIs(t, err, ErrNotFound)
}
