package database

import (
	"fmt"

	"quiz-builder/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// NewSQLXSQLiteDB opens the sqlite database at the configured path and
// verifies the connection.
func NewSQLXSQLiteDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", cfg.DB.Path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite at %s: %w", cfg.DB.Path, err)
	}

	// sqlite serializes writes; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	return db, nil
}
