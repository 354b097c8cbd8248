// pkg/secrets/resolver.go
package secrets

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Resolver resolves one logical credential from a (secret name, config key)
// pair: secret store first, static configuration as fallback. It is total —
// backend errors degrade to absence and never surface as errors.
type Resolver struct {
	store Store // nil when no backend is configured
	conf  map[string]string
	log   *zap.SugaredLogger
}

func NewResolver(store Store, conf map[string]string, log *zap.SugaredLogger) *Resolver {
	if conf == nil {
		conf = map[string]string{}
	}
	return &Resolver{store: store, conf: conf, log: log}
}

// Resolve returns the credential value and whether it was found. Each key
// resolves independently; one missing credential does not block another.
func (r *Resolver) Resolve(ctx context.Context, secretName, configKey string) (string, bool) {
	if r.store != nil {
		v, err := r.store.Get(ctx, secretName)
		switch {
		case err == nil && v != "":
			r.log.Debugw("credential from secret store", "secret", secretName)
			return v, true
		case err != nil && !errors.Is(err, ErrNotFound):
			// Unreachable backend falls through to config.
			r.log.Warnw("secret store lookup failed", "secret", secretName, "err", err)
		}
	}
	if v := r.conf[configKey]; v != "" {
		r.log.Debugw("credential from static config", "key", configKey)
		return v, true
	}
	r.log.Warnw("credential unresolved", "secret", secretName, "key", configKey)
	return "", false
}
