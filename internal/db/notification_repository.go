package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minishop/ordersys/internal/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(database *PostgresDB) *NotificationRepository {
	return &NotificationRepository{db: database.Conn}
}

// Create inserts a notification keyed by order id. A conflicting order
// id means the event was already processed; the insert becomes a no-op
// and created is false, which the consumer logs as a duplicate skip.
func (r *NotificationRepository) Create(ctx context.Context, orderID int64, message string) (created bool, err error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (order_id, message)
		VALUES ($1, $2)
		ON CONFLICT (order_id) DO NOTHING
	`, orderID, message)
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected > 0, nil
}

// GetAll returns all notifications, newest first
func (r *NotificationRepository) GetAll(ctx context.Context) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, message, created_at FROM notifications ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
