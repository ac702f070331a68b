package widget

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizkit/internal/quiz"
)

// IsMarkup reports whether content is already-structured widget markup
// rather than shortcode text. It only looks at the first non-space rune.
func IsMarkup(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "<")
}

// LiftContainers parses markup and detaches every top-level quiz container
// it holds, as-is. Containers nested inside another container stay with
// their outer container. Shortcodes inside lifted widgets are not re-parsed.
func LiftContainers(markup string) []*html.Node {
	root := Element(atom.Div)
	nodes, err := html.ParseFragment(strings.NewReader(strings.TrimSpace(markup)), root)
	if err != nil {
		return nil
	}
	for _, node := range nodes {
		root.AppendChild(node)
	}

	var containers []*html.Node
	Walk(root, func(node *html.Node) bool {
		if HasClass(node, ClassContainer) {
			containers = append(containers, node)
		}
		return true
	})

	lifted := make([]*html.Node, 0, len(containers))
	for _, container := range containers {
		if outer := Closest(container.Parent, ClassContainer); outer != nil {
			continue
		}
		lifted = append(lifted, container)
	}
	for _, container := range lifted {
		Detach(container)
	}
	return lifted
}

// Decode reads the quiz model back out of a widget's addressable attributes.
// It works on rendered and lifted widgets alike.
func Decode(container *html.Node) quiz.Quiz {
	q := quiz.Quiz{
		ID:      Attr(container, "id"),
		Options: Options(container),
	}
	if title := FindByClass(container, ClassTitle); title != nil {
		q.Question = strings.TrimSpace(TextContent(title))
	}
	if submit := FindByClass(container, ClassSubmit); submit != nil {
		q.Correct = Attr(submit, AttrCorrect)
	} else if reveal := FindByClass(container, ClassReveal); reveal != nil {
		q.Correct = Attr(reveal, AttrCorrect)
	}
	return q
}

// Options re-derives the option list of a widget in display order.
func Options(container *html.Node) []quiz.Option {
	optionNodes := FindAllByClass(container, ClassOption)
	options := make([]quiz.Option, 0, len(optionNodes))
	for _, node := range optionNodes {
		option := quiz.Option{
			Value:       Attr(node, AttrValue),
			Explanation: Attr(node, AttrExplanation),
		}
		if text := FindByClass(node, ClassOptionText); text != nil {
			option.Content = InnerHTML(text)
		}
		options = append(options, option)
	}
	return options
}

// OptionNode returns the option element of container whose value matches.
func OptionNode(container *html.Node, value string) *html.Node {
	for _, node := range FindAllByClass(container, ClassOption) {
		if Attr(node, AttrValue) == value {
			return node
		}
	}
	return nil
}
