package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"quizkit/internal/archive"
)

func (s *Store) Save(ctx context.Context, saved archive.SavedQuiz) error {
	if saved.Metadata.PageURL == "" {
		return archive.ErrInvalidPageURL
	}
	if saved.Metadata.Timestamp.IsZero() {
		saved.Metadata.Timestamp = time.Now().UTC()
	}

	metadataJSON, err := json.Marshal(saved.Metadata)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO saved_quizzes (page_url, page_title, content, metadata_json, saved_at_unix)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(page_url) DO UPDATE SET
			page_title = excluded.page_title,
			content = excluded.content,
			metadata_json = excluded.metadata_json,
			saved_at_unix = excluded.saved_at_unix`,
		saved.Metadata.PageURL,
		saved.Metadata.PageTitle,
		saved.Content,
		string(metadataJSON),
		saved.Metadata.Timestamp.UnixNano(),
	)
	return err
}

func (s *Store) Load(ctx context.Context, pageURL string) (archive.SavedQuiz, error) {
	var (
		saved        archive.SavedQuiz
		metadataJSON string
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT content, metadata_json FROM saved_quizzes WHERE page_url = ?`,
		pageURL,
	).Scan(&saved.Content, &metadataJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return archive.SavedQuiz{}, archive.ErrNotFound
		}
		return archive.SavedQuiz{}, err
	}

	if err := json.Unmarshal([]byte(metadataJSON), &saved.Metadata); err != nil {
		return archive.SavedQuiz{}, err
	}
	saved.Metadata.PageURL = pageURL
	return saved, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]archive.PageSummary, error) {
	if limit <= 0 {
		limit = archive.DefaultListLimit
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT page_url, page_title, saved_at_unix
		 FROM saved_quizzes
		 ORDER BY saved_at_unix DESC, page_url ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make([]archive.PageSummary, 0, limit)
	for rows.Next() {
		var (
			page        archive.PageSummary
			savedAtUnix int64
		)
		if err := rows.Scan(&page.PageURL, &page.PageTitle, &savedAtUnix); err != nil {
			return nil, err
		}
		page.SavedAt = time.Unix(0, savedAtUnix).UTC()
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
