package cli

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"quizkit/internal/controller"
	"quizkit/internal/logger"
	"quizkit/internal/widget"
)

// Clicker is the part of the controller the UI drives. Every interaction is
// delivered as a click on a widget node, exactly as a pointer would.
type Clicker interface {
	Click(node *html.Node) error
	State(container *html.Node) (controller.State, error)
}

type Options struct {
	Notices *NoticeBoard
	Status  string
	NoColor bool
	Logger  *logger.Logger
}

// Model is a Bubble Tea model over a list of bound widgets.
type Model struct {
	ctrl    Clicker
	widgets []*html.Node
	current int
	cursor  int

	notices *NoticeBoard
	notice  string
	status  string

	keys    keyMap
	help    help.Model
	noColor bool
	width   int
	log     *logger.Logger
}

func NewModel(ctrl Clicker, widgets []*html.Node, opts Options) Model {
	return Model{
		ctrl:    ctrl,
		widgets: widgets,
		notices: opts.Notices,
		status:  opts.Status,
		keys:    defaultKeyMap(),
		help:    help.New(),
		noColor: opts.NoColor,
		log:     logger.OrNop(opts.Logger),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.help.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if len(m.widgets) == 0 {
		return m, nil
	}

	m.notice = ""
	container := m.widgets[m.current]
	options := widget.FindAllByClass(container, widget.ClassOption)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Prev):
		if m.current > 0 {
			m.current--
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Next):
		if m.current < len(m.widgets)-1 {
			m.current++
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(options) {
			m.click(options[m.cursor])
		}
	case key.Matches(msg, m.keys.Submit):
		m.click(widget.FindByClass(container, widget.ClassSubmit))
	case key.Matches(msg, m.keys.Reveal):
		m.click(widget.FindByClass(container, widget.ClassReveal))
	case key.Matches(msg, m.keys.Reset):
		m.click(widget.FindByClass(container, widget.ClassReset))
	}
	return m, nil
}

func (m *Model) click(node *html.Node) {
	if node == nil {
		return
	}
	err := m.ctrl.Click(node)
	if notice := m.notices.Take(); notice != "" {
		m.notice = notice
	}
	if err != nil && !errors.Is(err, controller.ErrNoSelection) {
		m.log.Warn("quiz interaction failed", "error", err)
		m.notice = err.Error()
	}
}

func (m Model) View() string {
	if len(m.widgets) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			stylize("No quizzes to show.", m.noColor, colorMuted),
			renderStatus(m.status, m.noColor),
			m.help.View(m.keys),
		)
	}

	container := m.widgets[m.current]
	state, _ := m.ctrl.State(container)

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.current, len(m.widgets), state, m.noColor),
		renderQuestion(container, m.noColor),
		renderOptions(container, m.cursor, m.noColor),
		renderControls(container, m.noColor),
		renderResult(container, m.noColor),
		renderExplanation(container, m.noColor),
		renderNotice(m.notice, m.noColor),
		renderStatus(m.status, m.noColor),
		m.help.View(m.keys),
	)
}

// Current reports the quiz and option under the cursor.
func (m Model) Current() (quizIndex, optionIndex int) {
	return m.current, m.cursor
}

func (m Model) Notice() string {
	return m.notice
}
