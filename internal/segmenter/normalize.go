package segmenter

import (
	"regexp"
	"strings"
)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Normalize unifies line endings to LF and collapses runs of three or more
// newlines to exactly two (the paragraph separator). No case folding or
// accent stripping happens here; matchers apply their own case rules.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return excessNewlines.ReplaceAllString(text, "\n\n")
}
