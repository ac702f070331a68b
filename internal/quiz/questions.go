package quiz

import "strings"

const UntitledQuestion = "Untitled question"

// Option is one selectable answer of a Quiz. Value is the comparison key
// against Quiz.Correct and must be unique within one Quiz.
type Option struct {
	Value       string `json:"value"`
	Explanation string `json:"explanation,omitempty"`
	Content     string `json:"content"`
}

type Quiz struct {
	ID       string   `json:"id,omitempty"`
	Question string   `json:"question"`
	Correct  string   `json:"correct"`
	Options  []Option `json:"options"`
}

// Title returns the question text, or UntitledQuestion when it is blank.
func (q Quiz) Title() string {
	if strings.TrimSpace(q.Question) == "" {
		return UntitledQuestion
	}
	return q.Question
}

// CorrectOption returns the option whose value equals Correct.
func (q Quiz) CorrectOption() (Option, bool) {
	for _, option := range q.Options {
		if option.Value == q.Correct {
			return option, true
		}
	}
	return Option{}, false
}

func (q Quiz) OptionByValue(value string) (Option, bool) {
	for _, option := range q.Options {
		if option.Value == value {
			return option, true
		}
	}
	return Option{}, false
}
