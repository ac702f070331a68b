package sqlite

import (
	"context"
	"fmt"
)

// migrations[i] upgrades a database from user_version i to i+1.
var migrations = [][]string{
	{
		// One row per page; saving again replaces the previous content.
		`CREATE TABLE IF NOT EXISTS saved_quizzes (
			page_url TEXT PRIMARY KEY,
			page_title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			metadata_json TEXT NOT NULL,
			saved_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saved_quizzes_saved_at ON saved_quizzes(saved_at_unix DESC);`,
	},
}

var currentSchemaVersion = len(migrations)

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (s *Store) migrate(ctx context.Context) error {
	version, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, currentSchemaVersion)
	}

	for ; version < currentSchemaVersion; version++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		for _, stmt := range migrations[version] {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", version+1, err)
			}
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, version+1)); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
