package archive

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("saved quiz not found")
	ErrInvalidPageURL = errors.New("invalid page url")
	ErrEmptyContent   = errors.New("content is required")
)

// Metadata describes where and how a block of quiz content was produced.
type Metadata struct {
	Difficulty string    `json:"difficulty,omitempty"`
	Count      Count     `json:"count,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	PageURL    string    `json:"pageUrl"`
	PageTitle  string    `json:"pageTitle,omitempty"`
}

// Count is a question count. It decodes from a JSON number or from a numeric
// string, which is what page scripts post for a select value.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*c = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid count %s", string(data))
	}
	*c = Count(n)
	return nil
}

// SavedQuiz is the opaque quiz content stored for one page. The content is
// whatever the generator returned; it is never parsed server side.
type SavedQuiz struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

type PageSummary struct {
	PageURL   string    `json:"pageUrl"`
	PageTitle string    `json:"pageTitle,omitempty"`
	SavedAt   time.Time `json:"savedAt"`
}

type Repository interface {
	Save(ctx context.Context, saved SavedQuiz) error
	Load(ctx context.Context, pageURL string) (SavedQuiz, error)
	ListRecent(ctx context.Context, limit int) ([]PageSummary, error)
}
