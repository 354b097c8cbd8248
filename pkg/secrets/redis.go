// pkg/secrets/redis.go
package secrets

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "secret:"

type redisStore struct {
	cli *redis.Client
}

// NewRedisStore reads secrets from keys under "secret:". The client is shared
// process-wide; a nil client is not accepted — callers pass nil Store instead.
func NewRedisStore(cli *redis.Client) Store {
	return &redisStore{cli: cli}
}

func (s *redisStore) Get(ctx context.Context, name string) (string, error) {
	v, err := s.cli.Get(ctx, redisPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
