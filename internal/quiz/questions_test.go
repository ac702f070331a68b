package quiz

import (
	"encoding/json"
	"reflect"
	"testing"
)

const sampleShortcodes = `{{<quiz id="q1" question="2+2?" correct="B">}}{{<quizoption value="A" explanation="wrong">}}3{{</quizoption>}}{{<quizoption value="B" explanation="right">}}4{{</quizoption>}}{{</quiz>}}`

func TestParseShortcodesEndToEndSample(t *testing.T) {
	quizzes := ParseShortcodes(sampleShortcodes)
	if len(quizzes) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(quizzes))
	}

	got := quizzes[0]
	want := Quiz{
		ID:       "q1",
		Question: "2+2?",
		Correct:  "B",
		Options: []Option{
			{Value: "A", Explanation: "wrong", Content: "3"},
			{Value: "B", Explanation: "right", Content: "4"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseShortcodes = %+v, want %+v", got, want)
	}
}

func TestParseShortcodesPreservesDocumentOrder(t *testing.T) {
	text := `intro
{{< quiz id="first" question="One?" correct="A" >}}
  {{< quizoption value="A" >}}  alpha  {{< /quizoption >}}
  {{< quizoption value="B" >}}beta{{< /quizoption >}}
  {{< quizoption value="C" >}}gamma{{< /quizoption >}}
{{< /quiz >}}
some prose between blocks
{{< quiz id="second" question="Two?" correct="B" >}}
  {{< quizoption value="A" >}}x{{< /quizoption >}}
  {{< quizoption value="B" >}}<code>y</code>{{< /quizoption >}}
{{< /quiz >}}`

	quizzes := ParseShortcodes(text)
	if len(quizzes) != 2 {
		t.Fatalf("expected 2 quizzes, got %d", len(quizzes))
	}
	if quizzes[0].ID != "first" || quizzes[1].ID != "second" {
		t.Fatalf("unexpected quiz order: %q, %q", quizzes[0].ID, quizzes[1].ID)
	}

	var values []string
	for _, option := range quizzes[0].Options {
		values = append(values, option.Value)
	}
	if !reflect.DeepEqual(values, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected option order: %v", values)
	}
	if quizzes[0].Options[0].Content != "alpha" {
		t.Fatalf("option content not trimmed: %q", quizzes[0].Options[0].Content)
	}
	if quizzes[1].Options[1].Content != "<code>y</code>" {
		t.Fatalf("inline markup not preserved: %q", quizzes[1].Options[1].Content)
	}
}

func TestParseShortcodesDropsMalformedBlocks(t *testing.T) {
	cases := map[string]string{
		"dangling close":    `{{< /quiz >}}`,
		"open only":         `{{< quiz id="x" question="Q" >}}{{< quizoption value="A" >}}a{{< /quizoption >}}`,
		"empty input":       ``,
		"plain prose":       `no shortcodes here at all`,
		"close before open": `{{< /quiz >}}{{< quiz id="x" >}}`,
	}

	for name, text := range cases {
		if got := ParseShortcodes(text); len(got) != 0 {
			t.Fatalf("%s: expected no quizzes, got %+v", name, got)
		}
	}
}

func TestParseShortcodesSkipsUnclosedOptionButKeepsQuiz(t *testing.T) {
	text := `{{< quiz id="q" correct="A" >}}{{< quizoption value="A" >}}ok{{< /quizoption >}}{{< quizoption value="B" >}}dangling{{< /quiz >}}`

	quizzes := ParseShortcodes(text)
	if len(quizzes) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(quizzes))
	}
	if len(quizzes[0].Options) != 1 || quizzes[0].Options[0].Value != "A" {
		t.Fatalf("expected only the closed option, got %+v", quizzes[0].Options)
	}
}

func TestParseShortcodesZeroOptions(t *testing.T) {
	quizzes := ParseShortcodes(`{{< quiz question="Empty?" correct="A" >}}nothing{{< /quiz >}}`)
	if len(quizzes) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(quizzes))
	}
	if len(quizzes[0].Options) != 0 {
		t.Fatalf("expected no options, got %+v", quizzes[0].Options)
	}
	if quizzes[0].ID != "" {
		t.Fatalf("expected empty id to be left for the renderer, got %q", quizzes[0].ID)
	}
}

func TestParseAttributesOrderIndependent(t *testing.T) {
	a := ParseAttributes(` question="Q" id="X"`)
	b := ParseAttributes(` id="X" question="Q"`)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("attribute maps differ: %v vs %v", a, b)
	}
}

func TestParseAttributesBestEffort(t *testing.T) {
	got := ParseAttributes(`id = "one" broken=noquotes data_x="1" data-y="2" id="two" ="orphan" "stray"`)
	want := map[string]string{
		"id":     "two",
		"data_x": "1",
		"data-y": "2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseAttributes = %v, want %v", got, want)
	}

	if got := ParseAttributes(""); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestExtractContent(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want string
	}{
		{name: "plain string", raw: "  hello  ", want: "hello"},
		{name: "nil", raw: nil, want: ""},
		{name: "empty map", raw: map[string]any{}, want: ""},
		{
			name: "choices message content",
			raw: map[string]any{
				"choices": []any{map[string]any{"message": map[string]any{"content": "X"}}},
			},
			want: "X",
		},
		{
			name: "direct leaf wins",
			raw: map[string]any{
				"content": "direct",
				"message": map[string]any{"content": "nested"},
			},
			want: "direct",
		},
		{
			name: "blank leaf falls through",
			raw: map[string]any{
				"content": "   ",
				"result":  "from result",
			},
			want: "from result",
		},
		{
			name: "priority message before data",
			raw: map[string]any{
				"data":    "from data",
				"message": "from message",
			},
			want: "from message",
		},
		{
			name: "first non-empty sequence element",
			raw:  []any{"", map[string]any{}, map[string]any{"delta": map[string]any{"content": "streamed"}}, "later"},
			want: "streamed",
		},
		{
			name: "unknown keys ignored",
			raw:  map[string]any{"text": "ignored"},
			want: "",
		},
		{name: "number", raw: 42.0, want: ""},
		{
			name: "non-string content leaf is not recursed",
			raw:  map[string]any{"content": map[string]any{"content": "deep"}},
			want: "",
		},
	}

	for _, tc := range cases {
		if got := ExtractContent(tc.raw); got != tc.want {
			t.Fatalf("%s: ExtractContent = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestExtractContentDecodesRawJSON(t *testing.T) {
	raw := json.RawMessage(`{"data":{"choices":[{"message":{"content":" {{< quiz >}} "}}]}}`)
	if got := ExtractContent(raw); got != "{{< quiz >}}" {
		t.Fatalf("ExtractContent = %q", got)
	}

	if got := ExtractContent([]byte("not json at all")); got != "not json at all" {
		t.Fatalf("expected invalid JSON bytes to be treated as text, got %q", got)
	}
}

func TestQuizHelpers(t *testing.T) {
	q := ParseShortcodes(sampleShortcodes)[0]

	option, ok := q.CorrectOption()
	if !ok || option.Explanation != "right" {
		t.Fatalf("CorrectOption = (%+v, %v)", option, ok)
	}
	if _, ok := q.OptionByValue("Z"); ok {
		t.Fatalf("expected no option for unknown value")
	}
	if (Quiz{}).Title() != UntitledQuestion {
		t.Fatalf("expected untitled placeholder")
	}
}
