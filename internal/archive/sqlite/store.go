package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const DefaultPath = "quizkit.db"

// Store keeps saved quiz content in one table keyed by page URL.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it to the current
// schema version. An empty path uses DefaultPath.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Writers are serialized by sqlite anyway; a single connection avoids
	// SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database answers and carries the expected schema.
func (s *Store) Ping(ctx context.Context) error {
	version, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != currentSchemaVersion {
		return fmt.Errorf("schema version %d, want %d", version, currentSchemaVersion)
	}
	return nil
}
