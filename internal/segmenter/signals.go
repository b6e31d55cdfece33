package segmenter

import (
	"regexp"
	"strings"
)

// Section detection is driven by ordered vocabulary tables rather than
// branching, so court-specific phrasing can be added without touching the
// accumulator. All entries are lowercase; callers match against lowercased
// paragraph text.

// introductionSignals mark the case header: court, chamber, reporting
// magistrate, docket and parties.
var introductionSignals = []string{
	"la corte constitucional",
	"sala plena",
	"magistrado ponente",
	"magistrada ponente",
	"expediente",
	"demandante",
	"demandado",
}

// considerationsSignals mark the start of the court's reasoning.
var considerationsSignals = []string{
	"antecedentes",
	"consideraciones",
	"fundamentos jurídicos",
	"fundamentos de la decisión",
	"problema jurídico",
}

// doctrineSignals tag core-doctrine excerpts that are copied into the
// "other" list regardless of canonical section assignment.
var doctrineSignals = []string{
	"ratio decidendi",
	"fundamento central",
	"tesis principal",
	"doctrina constitucional",
}

// doctrineMinLen is the minimum paragraph length for doctrine tagging.
const doctrineMinLen = 150

func matchesAny(lower string, vocabulary []string) bool {
	for _, v := range vocabulary {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// resolutionPatterns detect the operative-part heading, tried in order:
// a numbered structural heading, a standalone RESUELVE line, a line ending
// in RESUELVE with trailing punctuation, and a multi-line "la Corte ...
// RESUELVE" span.
var resolutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*(?:[IVXLCDM]+[.\-]?\s+)?RESUELVE\s*$`),
	regexp.MustCompile(`(?m)^\s*RESUELVE\s*[:.]?\s*$`),
	regexp.MustCompile(`(?m)RESUELVE\s*[:.;,]*\s*$`),
	regexp.MustCompile(`(?ms)\b(?i:corte|sala)\b.*^.*RESUELVE\s*$`),
}

func matchesResolution(text string) bool {
	for _, re := range resolutionPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
