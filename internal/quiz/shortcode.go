package quiz

import (
	"regexp"
	"strings"
)

var (
	attributePattern   = regexp.MustCompile(`([a-zA-Z0-9_-]+)\s*=\s*"([^"]*)"`)
	quizBlockPattern   = regexp.MustCompile(`(?s)\{\{<\s*quiz\b([^>]*)>\}\}(.*?)\{\{<\s*/quiz\s*>\}\}`)
	optionBlockPattern = regexp.MustCompile(`(?s)\{\{<\s*quizoption\b([^>]*)>\}\}(.*?)\{\{<\s*/quizoption\s*>\}\}`)
)

// ParseAttributes extracts name="value" pairs from the attribute region of a
// shortcode tag. Fragments that do not match are skipped; a repeated name
// keeps its last value.
func ParseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, match := range attributePattern.FindAllStringSubmatch(raw, -1) {
		attrs[match[1]] = match[2]
	}
	return attrs
}

// ParseShortcodes scans text for paired quiz/quizoption blocks and returns one
// Quiz per well-formed quiz block, in document order. Unmatched or improperly
// nested tags are dropped silently, so the result may be empty but the call
// never fails.
func ParseShortcodes(text string) []Quiz {
	blocks := quizBlockPattern.FindAllStringSubmatch(text, -1)
	quizzes := make([]Quiz, 0, len(blocks))

	for _, block := range blocks {
		attrs := ParseAttributes(block[1])
		body := block[2]

		optionBlocks := optionBlockPattern.FindAllStringSubmatch(body, -1)
		options := make([]Option, 0, len(optionBlocks))
		for _, optionBlock := range optionBlocks {
			optionAttrs := ParseAttributes(optionBlock[1])
			options = append(options, Option{
				Value:       optionAttrs["value"],
				Explanation: optionAttrs["explanation"],
				Content:     strings.TrimSpace(optionBlock[2]),
			})
		}

		quizzes = append(quizzes, Quiz{
			ID:       attrs["id"],
			Question: attrs["question"],
			Correct:  attrs["correct"],
			Options:  options,
		})
	}

	return quizzes
}
