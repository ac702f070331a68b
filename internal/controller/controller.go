package controller

import (
	"errors"
	"sync"

	"golang.org/x/net/html"

	"quizkit/internal/logger"
	"quizkit/internal/widget"
)

type State string

const (
	Unanswered State = "unanswered"
	Selected   State = "selected"
	Submitted  State = "submitted"
	Revealed   State = "revealed"
)

// Locked reports whether s is one of the terminal-until-reset states.
func (s State) Locked() bool {
	return s == Submitted || s == Revealed
}

const (
	AttrBound    = "data-quiz-bound"
	AttrState    = "data-quiz-state"
	AttrChecked  = "checked"
	AttrDisabled = "disabled"

	ClassSelected  = "selected"
	ClassCorrect   = "correct"
	ClassIncorrect = "incorrect"
	ClassShow      = "show"
)

var (
	ErrNoSelection   = errors.New("no answer selected")
	ErrNotBound      = errors.New("widget is not bound")
	ErrNotContainer  = errors.New("node is not a quiz container")
	ErrUnknownOption = errors.New("unknown option")
)

// Notifier surfaces user-facing messages such as the missing-selection
// prompt.
type Notifier interface {
	Notify(container *html.Node, message string)
}

type NotifierFunc func(container *html.Node, message string)

func (f NotifierFunc) Notify(container *html.Node, message string) {
	f(container, message)
}

// Transition describes one applied state change of a widget.
type Transition struct {
	WidgetID string
	Action   string
	From     State
	To       State
	Value    string
	Correct  bool
}

// Options configures a Controller. Notifier and Observer run after the
// controller has released its lock, so they may query or drive it.
type Options struct {
	Notifier Notifier
	Observer func(Transition)
	Messages *Messages
	Logger   *logger.Logger
}

// Controller binds rendered widgets to the answer/reveal/reset state machine.
// Each widget owns its subtree and state. The mutex guards the registry and
// widget state so that UI loops and background loaders may share one
// controller.
type Controller struct {
	mu       sync.Mutex
	widgets  map[*html.Node]*binding
	handlers map[*html.Node][]func() error

	notifier Notifier
	observer func(Transition)
	messages Messages
	log      *logger.Logger
}

type binding struct {
	container   *html.Node
	options     []*html.Node
	submit      *html.Node
	reveal      *html.Node
	reset       *html.Node
	result      *html.Node
	explanation *html.Node
	state       State
}

func New(opts Options) *Controller {
	messages := DefaultMessages
	if opts.Messages != nil {
		messages = *opts.Messages
	}
	return &Controller{
		widgets:  make(map[*html.Node]*binding),
		handlers: make(map[*html.Node][]func() error),
		notifier: opts.Notifier,
		observer: opts.Observer,
		messages: messages,
		log:      logger.OrNop(opts.Logger),
	}
}

// Bind registers the controls of container. Binding an already bound widget
// is a no-op, so hosts may rescan a surface freely.
func (c *Controller) Bind(container *html.Node) error {
	if container == nil || !widget.HasClass(container, widget.ClassContainer) {
		return ErrNotContainer
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := widget.Attr(container, "id")
	if _, ok := c.widgets[container]; ok {
		widget.SetAttr(container, AttrBound, "true")
		c.log.Debug("quiz widget already bound", "widget", id)
		return nil
	}
	if widget.Attr(container, AttrBound) == "true" {
		// Marker came in with serialized markup; the handlers did not.
		c.log.Debug("rebinding widget with stale bound marker", "widget", id)
	}
	widget.SetAttr(container, AttrBound, "true")

	b := &binding{
		container:   container,
		options:     widget.FindAllByClass(container, widget.ClassOption),
		submit:      widget.FindByClass(container, widget.ClassSubmit),
		reveal:      widget.FindByClass(container, widget.ClassReveal),
		reset:       widget.FindByClass(container, widget.ClassReset),
		result:      widget.FindByClass(container, widget.ClassResult),
		explanation: widget.FindByClass(container, widget.ClassExplanation),
		state:       Unanswered,
	}
	c.widgets[container] = b
	widget.SetAttr(container, AttrState, string(b.state))

	if b.submit != nil {
		c.handlers[b.submit] = append(c.handlers[b.submit], func() error { return c.Submit(container) })
	}
	if b.reveal != nil {
		c.handlers[b.reveal] = append(c.handlers[b.reveal], func() error { return c.Reveal(container) })
	}
	if b.reset != nil {
		c.handlers[b.reset] = append(c.handlers[b.reset], func() error { return c.Reset(container) })
	}
	for _, option := range b.options {
		value := widget.Attr(option, widget.AttrValue)
		c.handlers[option] = append(c.handlers[option], func() error { return c.Select(container, value) })
	}

	c.log.Debug("quiz widget bound",
		"widget", id,
		"options", len(b.options),
		"has_submit", b.submit != nil,
		"has_reveal", b.reveal != nil,
		"has_reset", b.reset != nil,
	)
	return nil
}

// Unbind drops container and its handlers, e.g. when the surface holding it
// is cleared.
func (c *Controller) Unbind(container *html.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.widgets[container]
	if !ok {
		return
	}
	for _, node := range []*html.Node{b.submit, b.reveal, b.reset} {
		if node != nil {
			delete(c.handlers, node)
		}
	}
	for _, option := range b.options {
		delete(c.handlers, option)
	}
	delete(c.widgets, container)
	widget.RemoveAttr(container, AttrBound)
}

// Click delivers a click on node: handlers on node and each of its
// ancestors run in bubbling order. Clicks on disabled controls are dropped.
func (c *Controller) Click(node *html.Node) error {
	if node == nil {
		return nil
	}
	for current := node; current != nil; current = current.Parent {
		if widget.HasAttr(current, AttrDisabled) {
			return nil
		}
	}

	var chain []func() error
	c.mu.Lock()
	for current := node; current != nil; current = current.Parent {
		chain = append(chain, c.handlers[current]...)
	}
	c.mu.Unlock()

	var firstErr error
	for _, handler := range chain {
		if err := handler(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Controller) State(container *html.Node) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.widgets[container]
	if !ok {
		return "", ErrNotBound
	}
	return b.state, nil
}

// SelectedValue returns the value of the option currently marked selected.
func (c *Controller) SelectedValue(container *html.Node) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.widgets[container]
	if !ok {
		return "", false
	}
	if option := b.selectedOption(); option != nil {
		return widget.Attr(option, widget.AttrValue), true
	}
	return "", false
}

func (c *Controller) lookup(container *html.Node) (*binding, error) {
	b, ok := c.widgets[container]
	if !ok {
		return nil, ErrNotBound
	}
	return b, nil
}

// effects are callbacks produced while c.mu is held and run after it is
// released.
type effects []func()

func (e effects) run() {
	for _, effect := range e {
		if effect != nil {
			effect()
		}
	}
}

func (c *Controller) apply(action func() (effects, error)) error {
	pending, err := func() (effects, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		return action()
	}()
	pending.run()
	return err
}

func (c *Controller) transition(b *binding, action string, to State, value string, correct bool) func() {
	from := b.state
	b.state = to
	widget.SetAttr(b.container, AttrState, string(to))
	if c.observer == nil {
		return nil
	}
	event := Transition{
		WidgetID: widget.Attr(b.container, "id"),
		Action:   action,
		From:     from,
		To:       to,
		Value:    value,
		Correct:  correct,
	}
	return func() { c.observer(event) }
}

func (c *Controller) notify(container *html.Node, message string) func() {
	if c.notifier == nil {
		return nil
	}
	return func() { c.notifier.Notify(container, message) }
}

func (b *binding) selectedOption() *html.Node {
	for _, option := range b.options {
		if widget.HasClass(option, ClassSelected) {
			return option
		}
	}
	return nil
}

func (b *binding) optionByValue(value string) *html.Node {
	for _, option := range b.options {
		if widget.Attr(option, widget.AttrValue) == value {
			return option
		}
	}
	return nil
}

// correctValue reads the correct answer from control, falling back to the
// other control when a pre-rendered widget lacks one of them.
func (b *binding) correctValue(control *html.Node) string {
	for _, node := range []*html.Node{control, b.submit, b.reveal} {
		if node != nil && widget.HasAttr(node, widget.AttrCorrect) {
			return widget.Attr(node, widget.AttrCorrect)
		}
	}
	return ""
}
