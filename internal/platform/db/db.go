package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open a postgres connection for the config seeding tool.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open config database: %w", err)
	}

	// The dbtool is a short-lived batch process; a small pool is plenty.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify config database connection: %w", err)
	}

	return db, nil
}
