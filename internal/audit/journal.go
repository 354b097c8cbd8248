// internal/audit/journal.go
package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Entry is one orchestration invocation. Journaling is observational: a failed
// write never changes the outcome returned to the caller.
type Entry struct {
	Operation     string // "onboarding" | "activation"
	CorrelationID string
	PartyID       string
	Status        string // "SUCCEEDED" | "FAILED"
	Message       string
	Duration      time.Duration
}

type Journal struct {
	pool *pgxpool.Pool // nil disables journaling
	log  *zap.SugaredLogger
}

func NewJournal(pool *pgxpool.Pool, log *zap.SugaredLogger) *Journal {
	return &Journal{pool: pool, log: log}
}

// EnsureSchema creates the journal table if missing. Idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS executions (
  id BIGSERIAL PRIMARY KEY,
  operation text NOT NULL,
  correlation_id text,
  party_id text,
  status text NOT NULL,
  message text,
  duration_ms int,
  recorded_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS executions_operation_idx ON executions(operation, recorded_at);
`)
	return err
}

// Record inserts one entry, best effort.
func (j *Journal) Record(ctx context.Context, e Entry) {
	if j == nil || j.pool == nil {
		return
	}
	_, err := j.pool.Exec(ctx, `INSERT INTO executions(operation, correlation_id, party_id, status, message, duration_ms)
	  VALUES ($1,$2,$3,$4,$5,$6)`,
		e.Operation, e.CorrelationID, e.PartyID, e.Status, e.Message, e.Duration.Milliseconds())
	if err != nil {
		j.log.Warnw("journal write failed", "op", e.Operation, "err", err)
	}
}
