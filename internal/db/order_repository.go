package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/minishop/ordersys/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(database *PostgresDB) *OrderRepository {
	return &OrderRepository{db: database.Conn}
}

// Create inserts an order together with a pending outbox row for its
// order-created event, in one transaction. Either both commit or
// neither does, so a committed order always has an event waiting to be
// published. The outbox row id doubles as the broker message id.
func (r *OrderRepository) Create(ctx context.Context, itemName string) (*models.Order, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var order models.Order
	order.ItemName = itemName
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (item_name) VALUES ($1) RETURNING id, created_at`,
		itemName,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("failed to insert order: %w", err)
	}

	event := models.OrderCreatedEvent{OrderID: order.ID, ItemName: order.ItemName}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event: %w", err)
	}

	eventID := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_events_outbox (id, order_id, payload) VALUES ($1, $2, $3)`,
		eventID, order.ID, payload,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &order, eventID, nil
}

// GetAll returns all orders, newest first
func (r *OrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item_name, created_at FROM orders ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.ItemName, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// GetByID returns a single order, or nil when it doesn't exist
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, item_name, created_at FROM orders WHERE id = $1`, id,
	).Scan(&order.ID, &order.ItemName, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}
