package archive

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	DefaultCacheSize = 256
)

// Service validates save/load requests and keeps a read-through cache of
// saved content keyed by page url. The cache holds the most recently used
// pages only.
type Service struct {
	repo      Repository
	now       func() time.Time
	cacheSize int
	cache     *lru.Cache
}

type Option func(*Service)

// WithCacheSize bounds the number of cached pages. Sizes below one keep
// DefaultCacheSize.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		now:       func() time.Time { return time.Now().UTC() },
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	// lru.New only fails for non-positive sizes.
	s.cache, _ = lru.New(s.cacheSize)
	return s
}

func (s *Service) Save(ctx context.Context, saved SavedQuiz) (SavedQuiz, error) {
	pageURL, err := normalizePageURL(saved.Metadata.PageURL)
	if err != nil {
		return SavedQuiz{}, err
	}
	if strings.TrimSpace(saved.Content) == "" {
		return SavedQuiz{}, ErrEmptyContent
	}

	saved.Metadata.PageURL = pageURL
	saved.Metadata.PageTitle = strings.TrimSpace(saved.Metadata.PageTitle)
	if saved.Metadata.Timestamp.IsZero() {
		saved.Metadata.Timestamp = s.now()
	}

	if err := s.repo.Save(ctx, saved); err != nil {
		s.dropCached(pageURL)
		return SavedQuiz{}, err
	}
	s.setCached(saved)
	return saved, nil
}

func (s *Service) Load(ctx context.Context, pageURL string) (SavedQuiz, error) {
	pageURL, err := normalizePageURL(pageURL)
	if err != nil {
		return SavedQuiz{}, err
	}
	if saved, ok := s.getCached(pageURL); ok {
		return saved, nil
	}

	saved, err := s.repo.Load(ctx, pageURL)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SavedQuiz{}, ErrNotFound
		}
		return SavedQuiz{}, err
	}
	s.setCached(saved)
	return saved, nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]PageSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}

// normalizePageURL requires an absolute http(s) url and strips the fragment,
// so anchors on the same page share saved content.
func normalizePageURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPageURL
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", ErrInvalidPageURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrInvalidPageURL
	}
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String(), nil
}
