package host

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizkit/internal/logger"
	"quizkit/internal/quiz"
	"quizkit/internal/widget"
)

const ClassItem = "ai-quiz-item"

var ErrNoResults = errors.New("results surface is nil")

// Activator makes freshly inserted widgets interactive and releases them
// again when their surface is cleared.
type Activator interface {
	Bind(container *html.Node) error
	Unbind(container *html.Node)
}

// Host turns generator output into widgets on a results surface.
type Host struct {
	renderer  *widget.Renderer
	activator Activator
	log       *logger.Logger
}

func New(renderer *widget.Renderer, activator Activator, log *logger.Logger) *Host {
	if renderer == nil {
		renderer = widget.NewRenderer(nil, nil)
	}
	return &Host{
		renderer:  renderer,
		activator: activator,
		log:       logger.OrNop(log),
	}
}

// Append normalizes raw, builds widgets from it and appends each one to
// results inside its own item wrapper. Pre-rendered markup is lifted as-is;
// anything else goes through the shortcode parser. When no widget comes out
// the normalized text is appended instead so nothing is silently lost.
//
// It returns the appended widget containers. Bind failures do not stop the
// remaining widgets from being appended.
func (h *Host) Append(results *html.Node, raw any) ([]*html.Node, error) {
	if results == nil {
		return nil, ErrNoResults
	}

	text := quiz.ExtractContent(raw)
	containers := h.build(text)
	if len(containers) == 0 {
		item := widget.Element(atom.Div, ClassItem)
		if text != "" {
			widget.SetText(item, text)
		} else {
			widget.SetText(item, stringifySafe(raw))
		}
		results.AppendChild(item)
		h.log.Debug("no quiz widgets in content", "chars", len(text))
		return nil, nil
	}

	var errs []error
	for _, container := range containers {
		item := widget.Element(atom.Div, ClassItem)
		item.AppendChild(container)
		results.AppendChild(item)
		if h.activator == nil {
			continue
		}
		if err := h.activator.Bind(container); err != nil {
			h.log.Warn("bind quiz widget failed", "widget", widget.Attr(container, "id"), "error", err)
			errs = append(errs, err)
		}
	}
	h.log.Debug("appended quiz widgets", "count", len(containers))
	return containers, errors.Join(errs...)
}

// Clear unbinds every widget on results and empties it.
func (h *Host) Clear(results *html.Node) {
	if results == nil {
		return
	}
	containers := widget.FindAllByClass(results, widget.ClassContainer)
	if h.activator != nil {
		for _, container := range containers {
			h.activator.Unbind(container)
		}
	}
	widget.RemoveChildren(results)
	h.log.Debug("cleared quiz results", "widgets", len(containers))
}

func (h *Host) build(text string) []*html.Node {
	if text == "" {
		return nil
	}
	if widget.IsMarkup(text) {
		if lifted := widget.LiftContainers(text); len(lifted) > 0 {
			return lifted
		}
	}

	quizzes := quiz.ParseShortcodes(text)
	containers := make([]*html.Node, 0, len(quizzes))
	for _, q := range quizzes {
		containers = append(containers, h.renderer.Render(q))
	}
	return containers
}

func stringifySafe(raw any) string {
	switch value := raw.(type) {
	case nil:
		return ""
	case string:
		return value
	case []byte:
		return string(value)
	}
	encoded, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Sprint(raw)
	}
	return string(encoded)
}
