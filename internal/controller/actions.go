package controller

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizkit/internal/widget"
)

const (
	ClassResultIcon         = "quiz-result-icon"
	ClassExplanationTitle   = "quiz-explanation-title"
	ClassExplanationContent = "quiz-explanation-content"
)

// Messages holds the user-facing strings written into the result and
// explanation slots.
type Messages struct {
	SelectFirst      string
	Correct          string
	Incorrect        string // formatted with the correct value
	RevealAnswer     string // formatted with the correct value
	ExplanationTitle string
	YourChoice       string
	CorrectAnswer    string
	CorrectSuffix    string // appended to the correct value when revealing
}

var DefaultMessages = Messages{
	SelectFirst:      "Please select an answer first!",
	Correct:          "Correct!",
	Incorrect:        "Incorrect! The correct answer is: %s",
	RevealAnswer:     "The correct answer is: %s",
	ExplanationTitle: "Explanation:",
	YourChoice:       "Your choice: ",
	CorrectAnswer:    "Correct answer: ",
	CorrectSuffix:    " (correct answer)",
}

const (
	iconCorrect   = "✓"
	iconIncorrect = "✗"
)

// Select marks the option with value as the current choice. It is a no-op
// once the widget is locked.
func (c *Controller) Select(container *html.Node, value string) error {
	return c.apply(func() (effects, error) {
		return c.selectOption(container, value)
	})
}

func (c *Controller) selectOption(container *html.Node, value string) (effects, error) {
	b, err := c.lookup(container)
	if err != nil {
		return nil, err
	}
	if b.state.Locked() {
		return nil, nil
	}
	option := b.optionByValue(value)
	if option == nil {
		return nil, fmt.Errorf("select %q: %w", value, ErrUnknownOption)
	}

	for _, o := range b.options {
		widget.RemoveClass(o, ClassSelected)
		setChecked(o, false)
	}
	widget.AddClass(option, ClassSelected)
	setChecked(option, true)

	return effects{c.transition(b, "select", Selected, value, false)}, nil
}

// Submit grades the current selection. Without a selection it notifies the
// user and returns ErrNoSelection, leaving the widget untouched.
func (c *Controller) Submit(container *html.Node) error {
	return c.apply(func() (effects, error) {
		return c.submit(container)
	})
}

func (c *Controller) submit(container *html.Node) (effects, error) {
	b, err := c.lookup(container)
	if err != nil {
		return nil, err
	}
	if b.state.Locked() {
		return nil, nil
	}

	selected := b.selectedOption()
	if selected == nil {
		c.log.Debug("submit without selection", "widget", widget.Attr(container, "id"))
		return effects{c.notify(container, c.messages.SelectFirst)}, ErrNoSelection
	}

	correctValue := b.correctValue(b.submit)
	selectedValue := widget.Attr(selected, widget.AttrValue)
	isCorrect := selectedValue == correctValue

	for _, option := range b.options {
		widget.RemoveClass(option, ClassCorrect, ClassIncorrect)
		switch widget.Attr(option, widget.AttrValue) {
		case correctValue:
			widget.AddClass(option, ClassCorrect)
		case selectedValue:
			widget.AddClass(option, ClassIncorrect)
		}
	}

	if isCorrect {
		c.writeResult(b, true, iconCorrect, c.messages.Correct)
	} else {
		c.writeResult(b, false, iconIncorrect, fmt.Sprintf(c.messages.Incorrect, correctValue))
	}

	if b.explanation != nil {
		panel := c.startExplanation(b)
		selectedExplanation := widget.Attr(selected, widget.AttrExplanation)
		var correctExplanation string
		if correct := b.optionByValue(correctValue); correct != nil {
			correctExplanation = widget.Attr(correct, widget.AttrExplanation)
		}
		if isCorrect {
			if correctExplanation != "" {
				appendExplanation(panel, "", correctExplanation)
			}
		} else {
			if selectedExplanation != "" {
				appendExplanation(panel, c.messages.YourChoice, selectedExplanation)
			}
			if correctExplanation != "" {
				appendExplanation(panel, c.messages.CorrectAnswer, correctExplanation)
			}
		}
	}

	c.lock(b)
	return effects{c.transition(b, "submit", Submitted, selectedValue, isCorrect)}, nil
}

// Reveal shows the correct answer without grading. It does not need a prior
// selection and never marks anything incorrect.
func (c *Controller) Reveal(container *html.Node) error {
	return c.apply(func() (effects, error) {
		return c.reveal(container)
	})
}

func (c *Controller) reveal(container *html.Node) (effects, error) {
	b, err := c.lookup(container)
	if err != nil {
		return nil, err
	}
	if b.state.Locked() {
		return nil, nil
	}

	correctValue := b.correctValue(b.reveal)
	for _, option := range b.options {
		widget.RemoveClass(option, ClassCorrect, ClassIncorrect)
		if widget.Attr(option, widget.AttrValue) == correctValue {
			widget.AddClass(option, ClassCorrect)
		}
	}

	c.writeResult(b, true, iconCorrect, fmt.Sprintf(c.messages.RevealAnswer, correctValue))

	if b.explanation != nil {
		panel := c.startExplanation(b)
		for _, option := range b.options {
			explanation := widget.Attr(option, widget.AttrExplanation)
			if explanation == "" {
				continue
			}
			value := widget.Attr(option, widget.AttrValue)
			prefix := value + ": "
			if value == correctValue {
				prefix = iconCorrect + " " + value + c.messages.CorrectSuffix + ": "
			}
			appendExplanation(panel, prefix, explanation)
		}
	}

	c.lock(b)
	return effects{c.transition(b, "reveal", Revealed, correctValue, true)}, nil
}

// Reset returns the widget to Unanswered from any state.
func (c *Controller) Reset(container *html.Node) error {
	return c.apply(func() (effects, error) {
		return c.reset(container)
	})
}

func (c *Controller) reset(container *html.Node) (effects, error) {
	b, err := c.lookup(container)
	if err != nil {
		return nil, err
	}

	for _, option := range b.options {
		widget.RemoveClass(option, ClassSelected, ClassCorrect, ClassIncorrect)
		setChecked(option, false)
	}
	if b.result != nil {
		widget.RemoveClass(b.result, ClassShow, ClassCorrect, ClassIncorrect)
		widget.RemoveChildren(b.result)
	}
	if b.explanation != nil {
		widget.RemoveClass(b.explanation, ClassShow)
		widget.RemoveChildren(b.explanation)
	}
	for _, control := range []*html.Node{b.submit, b.reveal} {
		if control != nil {
			widget.RemoveAttr(control, AttrDisabled)
		}
	}

	return effects{c.transition(b, "reset", Unanswered, "", false)}, nil
}

func (c *Controller) writeResult(b *binding, success bool, icon, text string) {
	if b.result == nil {
		return
	}
	widget.RemoveChildren(b.result)
	widget.RemoveClass(b.result, ClassCorrect, ClassIncorrect)
	if success {
		widget.AddClass(b.result, ClassShow, ClassCorrect)
	} else {
		widget.AddClass(b.result, ClassShow, ClassIncorrect)
	}

	iconSpan := widget.Element(atom.Span, ClassResultIcon)
	widget.SetText(iconSpan, icon)
	b.result.AppendChild(iconSpan)
	widget.AppendText(b.result, text)
}

func (c *Controller) startExplanation(b *binding) *html.Node {
	widget.RemoveChildren(b.explanation)
	widget.AddClass(b.explanation, ClassShow)

	title := widget.Element(atom.Div, ClassExplanationTitle)
	widget.SetText(title, c.messages.ExplanationTitle)
	b.explanation.AppendChild(title)
	return b.explanation
}

func appendExplanation(panel *html.Node, prefix, text string) {
	entry := widget.Element(atom.Div, ClassExplanationContent)
	if prefix != "" {
		strong := widget.Element(atom.Strong)
		widget.SetText(strong, prefix)
		entry.AppendChild(strong)
	}
	widget.AppendText(entry, text)
	panel.AppendChild(entry)
}

func (c *Controller) lock(b *binding) {
	for _, control := range []*html.Node{b.submit, b.reveal} {
		if control != nil {
			widget.SetAttr(control, AttrDisabled, "")
		}
	}
}

func setChecked(option *html.Node, checked bool) {
	widget.Walk(option, func(node *html.Node) bool {
		if node.Type == html.ElementNode && node.DataAtom == atom.Input {
			if checked {
				widget.SetAttr(node, AttrChecked, "")
			} else {
				widget.RemoveAttr(node, AttrChecked)
			}
			return false
		}
		return true
	})
}
