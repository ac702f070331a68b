package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"quizkit/internal/controller"
	"quizkit/internal/widget"
)

const (
	colorHeader  = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("242")
	colorCorrect = lipgloss.Color("34")
	colorWrong   = lipgloss.Color("160")
	colorNotice  = lipgloss.Color("214")
	colorCursor  = lipgloss.Color("212")
)

func renderHeader(current, total int, state controller.State, noColor bool) string {
	line := fmt.Sprintf("Quiz %d/%d", current+1, total)
	if state != "" {
		line += " | " + string(state)
	}
	return stylize(line, noColor, colorHeader)
}

func renderQuestion(container *html.Node, noColor bool) string {
	title := strings.TrimSpace(widget.TextContent(widget.FindByClass(container, widget.ClassTitle)))
	if noColor {
		return title
	}
	return lipgloss.NewStyle().Bold(true).Render(title)
}

func renderOptions(container *html.Node, cursor int, noColor bool) string {
	options := widget.FindAllByClass(container, widget.ClassOption)
	lines := make([]string, 0, len(options))
	for idx, option := range options {
		pointer := "  "
		if idx == cursor {
			pointer = stylize("> ", noColor, colorCursor)
		}
		mark := "( )"
		if widget.HasClass(option, controller.ClassSelected) {
			mark = "(•)"
		}

		label := strings.TrimSpace(widget.TextContent(widget.FindByClass(option, widget.ClassOptionLabel)))
		text := collapse(widget.TextContent(widget.FindByClass(option, widget.ClassOptionText)))
		line := mark + " " + label + " " + text
		switch {
		case widget.HasClass(option, controller.ClassCorrect):
			line = stylize(line+" ✓", noColor, colorCorrect)
		case widget.HasClass(option, controller.ClassIncorrect):
			line = stylize(line+" ✗", noColor, colorWrong)
		}
		lines = append(lines, pointer+line)
	}
	return strings.Join(lines, "\n")
}

func renderControls(container *html.Node, noColor bool) string {
	controls := []struct {
		key   string
		class string
	}{
		{"s", widget.ClassSubmit},
		{"a", widget.ClassReveal},
		{"r", widget.ClassReset},
	}
	parts := make([]string, 0, len(controls))
	for _, control := range controls {
		node := widget.FindByClass(container, control.class)
		if node == nil {
			continue
		}
		part := "[" + control.key + "] " + strings.TrimSpace(widget.TextContent(node))
		if widget.HasAttr(node, controller.AttrDisabled) {
			part = stylize(part, noColor, colorMuted)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}

func renderResult(container *html.Node, noColor bool) string {
	result := widget.FindByClass(container, widget.ClassResult)
	if result == nil || !widget.HasClass(result, controller.ClassShow) {
		return ""
	}
	text := collapse(widget.TextContent(result))
	if widget.HasClass(result, controller.ClassIncorrect) {
		return stylize(text, noColor, colorWrong)
	}
	return stylize(text, noColor, colorCorrect)
}

func renderExplanation(container *html.Node, noColor bool) string {
	panel := widget.FindByClass(container, widget.ClassExplanation)
	if panel == nil || !widget.HasClass(panel, controller.ClassShow) {
		return ""
	}
	var lines []string
	if title := widget.FindByClass(panel, controller.ClassExplanationTitle); title != nil {
		lines = append(lines, stylize(collapse(widget.TextContent(title)), noColor, colorMuted))
	}
	for _, entry := range widget.FindAllByClass(panel, controller.ClassExplanationContent) {
		lines = append(lines, "  "+collapse(widget.TextContent(entry)))
	}
	return strings.Join(lines, "\n")
}

func renderNotice(notice string, noColor bool) string {
	if notice == "" {
		return ""
	}
	return stylize(notice, noColor, colorNotice)
}

func renderStatus(status string, noColor bool) string {
	if status == "" {
		return ""
	}
	return stylize(status, noColor, colorMuted)
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
