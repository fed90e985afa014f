package deliverylog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/bonsai-care-bot/internal/domain/webhook"
)

// Postgres persists delivery records using pgx.
//
// Expected schema:
//
//	CREATE TABLE webhook_deliveries (
//	    id          UUID PRIMARY KEY,
//	    received_at TIMESTAMPTZ NOT NULL,
//	    event_type  TEXT NOT NULL,
//	    command     TEXT NOT NULL,
//	    outcome     TEXT NOT NULL
//	);
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs the repository.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Record implements webhook.DeliveryLog.
func (p *Postgres) Record(ctx context.Context, record webhook.DeliveryRecord) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO webhook_deliveries (id, received_at, event_type, command, outcome)
		VALUES ($1, $2, $3, $4, $5)
	`, record.ID, record.ReceivedAt, record.EventType, record.Command, record.Outcome)
	return err
}

var _ webhook.DeliveryLog = (*Postgres)(nil)
