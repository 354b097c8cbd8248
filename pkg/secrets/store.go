// pkg/secrets/store.go
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"go.uber.org/zap"
)

// Store is the read-only capability this service consumes from an external
// secret backend. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
}

// ErrNotFound is returned when a name has no value in the backend.
var ErrNotFound = errors.New("secret not found")

type memStore struct {
	values map[string]string
}

// NewMemoryStoreFromEnv builds an in-process store seeded from
// SECRET_SEED_JSON (a flat name -> value object). Intended for dev and tests;
// an empty seed yields a store that answers not-found for everything.
func NewMemoryStoreFromEnv(log *zap.SugaredLogger) Store {
	m := &memStore{values: map[string]string{}}
	if seed := os.Getenv("SECRET_SEED_JSON"); seed != "" {
		if err := json.Unmarshal([]byte(seed), &m.values); err != nil {
			log.Warnw("secret seed invalid", "err", err)
		}
	}
	return m
}

// NewStaticStore wraps a fixed map. Used by tests.
func NewStaticStore(values map[string]string) Store {
	return &memStore{values: values}
}

func (m *memStore) Get(_ context.Context, name string) (string, error) {
	if v, ok := m.values[name]; ok && v != "" {
		return v, nil
	}
	return "", ErrNotFound
}
