// Package repository implements Postgres persistence for RxReturns
// aggregates over database/sql with lib/pq.
package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open opens the shared Postgres connection pool used by all repositories
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}
