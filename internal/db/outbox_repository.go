package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PendingEvent is an outbox row whose event has not yet reached the
// broker.
type PendingEvent struct {
	ID        string
	OrderID   int64
	Payload   []byte
	CreatedAt time.Time
}

type OutboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(database *PostgresDB) *OutboxRepository {
	return &OutboxRepository{db: database.Conn}
}

// MarkSent records that the event reached the broker. Used by the
// synchronous publish path right after a successful publish, and by the
// relay for backfilled rows.
func (r *OutboxRepository) MarkSent(ctx context.Context, eventID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE order_events_outbox SET sent_at = CURRENT_TIMESTAMP WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event sent: %w", err)
	}
	return nil
}

// Pending returns up to limit unsent events, oldest first. Rows are
// locked with SKIP LOCKED so concurrent relay instances never publish
// the same row in the same tick.
func (r *OutboxRepository) Pending(ctx context.Context, limit int) ([]PendingEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, payload, created_at
		FROM order_events_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending events: %w", err)
	}
	defer rows.Close()

	var events []PendingEvent
	for rows.Next() {
		var e PendingEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
