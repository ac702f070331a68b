package host

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"quizkit/internal/archive"
	"quizkit/internal/genclient"
	"quizkit/internal/logger"
)

const (
	DefaultDifficulty = "medium"
	DefaultCount      = 3

	StatusGenerating = "Generating quiz, please wait…"
)

var (
	ErrDetached = errors.New("section is detached")
	ErrInFlight = errors.New("generation already in progress")
)

// Backend is the generation and persistence collaborator of a section.
type Backend interface {
	Generate(ctx context.Context, request genclient.GenerateRequest) (genclient.Envelope, error)
	Save(ctx context.Context, saved archive.SavedQuiz) error
	Load(ctx context.Context, pageURL string) (*archive.SavedQuiz, error)
}

// Page identifies the document a section lives on. Saved content is keyed by
// URL.
type Page struct {
	URL   string
	Title string
}

type GenerateParams struct {
	Difficulty string
	Count      int
}

func (p GenerateParams) withDefaults() GenerateParams {
	if strings.TrimSpace(p.Difficulty) == "" {
		p.Difficulty = DefaultDifficulty
	}
	if p.Count <= 0 {
		p.Count = DefaultCount
	}
	return p
}

// Section is one generation area on a page: a results surface plus the flow
// that fills it from the backend.
type Section struct {
	host    *Host
	backend Backend
	page    Page
	results *html.Node
	log     *logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	status   string
	detached bool
	inFlight bool
}

func NewSection(h *Host, backend Backend, page Page, results *html.Node, log *logger.Logger) *Section {
	log = logger.OrNop(log)
	return &Section{
		host:    h,
		backend: backend,
		page:    page,
		results: results,
		log:     log.With("page", page.URL),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Section) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Section) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Close detaches the section and clears its results surface. Responses that
// arrive afterwards are dropped.
func (s *Section) Close() {
	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return
	}
	s.detached = true
	s.mu.Unlock()

	s.host.Clear(s.results)
}

func (s *Section) isDetached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detached
}

// Generate requests new quiz content, appends it to the results surface and
// saves it for the page. Saving is best effort.
func (s *Section) Generate(ctx context.Context, params GenerateParams) ([]*html.Node, error) {
	params = params.withDefaults()

	s.mu.Lock()
	if s.detached {
		s.mu.Unlock()
		return nil, ErrDetached
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrInFlight
	}
	s.inFlight = true
	s.status = StatusGenerating
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	s.log.Info("generating quiz", "difficulty", params.Difficulty, "count", params.Count)
	envelope, err := s.backend.Generate(ctx, genclient.GenerateRequest{
		Mode:       genclient.ModeExam,
		Difficulty: params.Difficulty,
		Count:      params.Count,
	})
	if s.isDetached() {
		s.log.Debug("dropping generation response for detached section")
		return nil, ErrDetached
	}
	if err != nil {
		s.log.Error("quiz generation failed", "error", err)
		s.setStatus("Generation failed: " + err.Error())
		return nil, err
	}

	content := envelope.Content()
	if content == "" {
		err := fmt.Errorf("%w: backend returned no quiz content", genclient.ErrGenerationFailed)
		s.log.Error("quiz generation failed", "error", err)
		s.setStatus("Generation failed: " + err.Error())
		return nil, err
	}

	widgets, err := s.host.Append(s.results, content)
	if err != nil {
		s.log.Warn("append generated quiz", "error", err)
	}
	s.setStatus(fmt.Sprintf("Generated %d question(s) at %s difficulty.", params.Count, params.Difficulty))

	s.save(ctx, content, params)
	return widgets, nil
}

func (s *Section) save(ctx context.Context, content string, params GenerateParams) {
	if strings.TrimSpace(s.page.URL) == "" {
		s.log.Debug("no page url, skipping save")
		return
	}
	err := s.backend.Save(ctx, archive.SavedQuiz{
		Content: content,
		Metadata: archive.Metadata{
			Difficulty: params.Difficulty,
			Count:      archive.Count(params.Count),
			Timestamp:  s.now(),
			PageURL:    s.page.URL,
			PageTitle:  s.page.Title,
		},
	})
	if err != nil {
		s.log.Warn("save generated quiz failed", "error", err)
		return
	}
	s.log.Debug("saved generated quiz")
}

// LoadSaved appends content previously saved for the page, if any. Load
// failures are logged and reported as an empty result.
func (s *Section) LoadSaved(ctx context.Context) ([]*html.Node, error) {
	if s.isDetached() {
		return nil, ErrDetached
	}
	if strings.TrimSpace(s.page.URL) == "" {
		return nil, nil
	}

	saved, err := s.backend.Load(ctx, s.page.URL)
	if err != nil {
		s.log.Warn("load saved quiz failed", "error", err)
		return nil, nil
	}
	if s.isDetached() {
		s.log.Debug("dropping saved quiz for detached section")
		return nil, ErrDetached
	}
	if saved == nil || strings.TrimSpace(saved.Content) == "" {
		s.log.Debug("no saved quiz for page")
		return nil, nil
	}

	widgets, err := s.host.Append(s.results, saved.Content)
	if err != nil {
		s.log.Warn("append saved quiz", "error", err)
	}
	s.log.Info("loaded saved quiz", "widgets", len(widgets))
	return widgets, nil
}
