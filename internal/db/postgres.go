package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

type PostgresDB struct {
	Conn *sql.DB
}

func NewPostgresDB(host string, port int, user, password, dbname string) (*PostgresDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Connected to PostgreSQL")
	return &PostgresDB{Conn: conn}, nil
}

// EnsureOrderSchema creates the order-service tables if they don't
// exist: the orders table and its outbox.
func (db *PostgresDB) EnsureOrderSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			item_name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_events_outbox (
			id UUID PRIMARY KEY,
			order_id BIGINT NOT NULL,
			payload JSONB NOT NULL,
			sent_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create order schema: %w", err)
		}
	}
	log.Println("✅ Order schema ready")
	return nil
}

// EnsureNotificationSchema creates the notifications table. The unique
// constraint on order_id is the idempotency key: a redelivered event
// becomes a no-op insert instead of a duplicate notification.
func (db *PostgresDB) EnsureNotificationSchema() error {
	stmt := `CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL UNIQUE,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Conn.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create notification schema: %w", err)
	}
	log.Println("✅ Notification schema ready")
	return nil
}

func (db *PostgresDB) Close() error {
	return db.Conn.Close()
}
