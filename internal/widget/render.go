package widget

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizkit/internal/quiz"
)

// Class names and attributes that make up the widget contract shared by the
// renderer, the controller and pre-rendered markup.
const (
	ClassContainer   = "quiz-container"
	ClassQuestion    = "quiz-question"
	ClassTitle       = "quiz-title"
	ClassOptions     = "quiz-options"
	ClassOption      = "quiz-option"
	ClassOptionLabel = "quiz-option-label"
	ClassOptionText  = "quiz-option-text"
	ClassActions     = "quiz-actions"
	ClassButton      = "quiz-btn"
	ClassSubmit      = "quiz-submit"
	ClassReveal      = "quiz-show-answer"
	ClassReset       = "quiz-reset"
	ClassResult      = "quiz-result"
	ClassExplanation = "quiz-explanation"

	AttrValue       = "data-value"
	AttrExplanation = "data-explanation"
	AttrCorrect     = "data-correct"

	ResultSuffix      = "-result"
	ExplanationSuffix = "-explanation"
)

type Labels struct {
	Submit string
	Reveal string
	Reset  string
}

var DefaultLabels = Labels{
	Submit: "Submit answer",
	Reveal: "Show answer",
	Reset:  "Reset",
}

// Renderer materializes quiz models into detached widget trees.
type Renderer struct {
	ids    IDSource
	labels Labels
}

func NewRenderer(ids IDSource, labels *Labels) *Renderer {
	if ids == nil {
		ids = DefaultIDSource
	}
	chosen := DefaultLabels
	if labels != nil {
		chosen = *labels
	}
	return &Renderer{ids: ids, labels: chosen}
}

// Render builds the widget for q. The returned container has no parent;
// inserting it is the caller's job.
func (r *Renderer) Render(q quiz.Quiz) *html.Node {
	id := q.ID
	if id == "" {
		id = r.ids()
	}

	container := Element(atom.Div, ClassContainer)
	SetAttr(container, "id", id)

	questionWrap := Element(atom.Div, ClassQuestion)
	title := Element(atom.H3, ClassTitle)
	SetText(title, q.Title())
	questionWrap.AppendChild(title)
	container.AppendChild(questionWrap)

	optionsWrap := Element(atom.Div, ClassOptions)
	for idx, option := range q.Options {
		optionsWrap.AppendChild(renderOption(id, idx, option))
	}
	container.AppendChild(optionsWrap)

	actions := Element(atom.Div, ClassActions)
	submit := button(r.labels.Submit, ClassSubmit)
	SetAttr(submit, AttrCorrect, q.Correct)
	reveal := button(r.labels.Reveal, ClassReveal)
	SetAttr(reveal, AttrCorrect, q.Correct)
	actions.AppendChild(submit)
	actions.AppendChild(reveal)
	actions.AppendChild(button(r.labels.Reset, ClassReset))
	container.AppendChild(actions)

	result := Element(atom.Div, ClassResult)
	SetAttr(result, "id", id+ResultSuffix)
	explanation := Element(atom.Div, ClassExplanation)
	SetAttr(explanation, "id", id+ExplanationSuffix)
	container.AppendChild(result)
	container.AppendChild(explanation)

	return container
}

func renderOption(containerID string, idx int, option quiz.Option) *html.Node {
	optionDiv := Element(atom.Div, ClassOption)
	SetAttr(optionDiv, AttrValue, option.Value)
	SetAttr(optionDiv, AttrExplanation, option.Explanation)

	inputID := containerID + "-" + option.Value
	if option.Value == "" {
		inputID = containerID + "-opt-" + strconv.Itoa(idx)
	}

	input := Element(atom.Input)
	SetAttr(input, "type", "radio")
	SetAttr(input, "name", containerID)
	SetAttr(input, "id", inputID)
	SetAttr(input, "value", option.Value)

	label := Element(atom.Label)
	SetAttr(label, "for", inputID)

	labelSpan := Element(atom.Span, ClassOptionLabel)
	SetText(labelSpan, option.Value+".")

	textSpan := Element(atom.Span, ClassOptionText)
	SetInnerHTML(textSpan, option.Content)

	label.AppendChild(labelSpan)
	label.AppendChild(textSpan)
	optionDiv.AppendChild(input)
	optionDiv.AppendChild(label)
	return optionDiv
}

func button(text string, classes ...string) *html.Node {
	node := Element(atom.Button, append([]string{ClassButton}, classes...)...)
	SetAttr(node, "type", "button")
	SetText(node, text)
	return node
}
