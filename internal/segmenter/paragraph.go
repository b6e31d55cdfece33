package segmenter

import (
	"regexp"
	"strings"
)

const (
	// anchorWindow is how far before the "resuelve" anchor the relaxed
	// length threshold applies. Operative clauses near the decision are
	// often single short numbered sentences ("PRIMERO.- Conceder...")
	// that the generic noise filter would otherwise discard.
	anchorWindow = 1000

	minLenNearAnchor = 10
	minLenDefault    = 50
)

// Paragraph is a trimmed, non-empty slice of the normalized text with its
// offset into that text.
type Paragraph struct {
	Text   string
	Offset int
}

var resuelveRe = regexp.MustCompile(`(?i)resuelve`)

// resuelveOffset returns the byte offset of the first case-insensitive
// occurrence of "resuelve" in the text, or -1. The match runs over the
// original text: lowercasing a copy first would skew the offset whenever a
// case mapping changes byte length (e.g. U+0130).
func resuelveOffset(text string) int {
	if loc := resuelveRe.FindStringIndex(text); loc != nil {
		return loc[0]
	}
	return -1
}

// splitParagraphs splits normalized text on blank-line boundaries, trims
// each piece, and drops noise. The minimum-length threshold is relaxed for
// paragraphs that start within anchorWindow characters before the first
// "resuelve" occurrence.
func splitParagraphs(normalized string) []Paragraph {
	anchor := resuelveOffset(normalized)

	var paragraphs []Paragraph
	pos := 0
	for _, piece := range strings.Split(normalized, "\n\n") {
		trimmed := strings.TrimSpace(piece)
		start := pos + leadingWhitespace(piece)
		pos += len(piece) + 2

		if trimmed == "" {
			continue
		}
		threshold := minLenDefault
		if anchor >= 0 && start >= anchor-anchorWindow && start < anchor {
			threshold = minLenNearAnchor
		}
		if len(trimmed) < threshold {
			continue
		}
		paragraphs = append(paragraphs, Paragraph{Text: trimmed, Offset: start})
	}
	return paragraphs
}

func leadingWhitespace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\n"))
}
