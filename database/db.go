package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the database and verifies the connection. Supported
// drivers are "postgres" (production) and "sqlite3" (tests, single-node
// deployments). All SQL in this package is written to run on both.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Small fixed pool; conflicting writers serialize at the database.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Printf("database connected (driver=%s)", driver)
	return db, nil
}

// Migrate creates the schema if it does not exist.
//
// Connections are stored as two directed rows per edge so existence checks,
// listing and deletion are single-key lookups. The cost is that every edge
// mutation must run inside a transaction to keep the pair symmetric.
func Migrate(db *sql.DB) error {
	tables := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT UNIQUE NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_connections (
		user_id TEXT NOT NULL,
		connected_id TEXT NOT NULL,
		connected_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, connected_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (connected_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS user_connection_requests (
		sender_id TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		sent_at TIMESTAMP NOT NULL,
		PRIMARY KEY (sender_id, receiver_id),
		FOREIGN KEY (sender_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (receiver_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		task TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		done BOOLEAN NOT NULL DEFAULT FALSE,
		due_date TIMESTAMP,
		repeat_frequency TEXT,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_connections_user ON user_connections(user_id);
	CREATE INDEX IF NOT EXISTS idx_requests_receiver ON user_connection_requests(receiver_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
	`

	if _, err := db.Exec(tables); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
