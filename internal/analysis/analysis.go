// Package analysis sends the capped structure digest of a judgment to the
// AI provider and turns the response into editorial metadata.
package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Analysis is the structural metadata extracted from a judgment digest.
type Analysis struct {
	Magistrate   string `json:"magistrado_ponente"`
	Chamber      string `json:"sala"`
	SentenceType string `json:"tipo_sentencia"` // C, T, SU or A
	Theme        string `json:"tema_principal"`
	Summary      string `json:"resumen"` // markdown
	Decision     string `json:"decision"`
}

var validSentenceTypes = map[string]bool{
	"C":  true,
	"T":  true,
	"SU": true,
	"A":  true,
}

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`act\s+as\s+|pretend\s+|forget\s+(everything|all)|override|` +
		`new\s+instructions)`,
)

// ValidateAnalysis normalizes and checks a model response. Returns false
// when the analysis is unusable.
func ValidateAnalysis(a *Analysis) bool {
	if a == nil {
		return false
	}
	a.Magistrate = strings.TrimSpace(a.Magistrate)
	a.Chamber = strings.TrimSpace(a.Chamber)
	a.Theme = strings.TrimSpace(a.Theme)
	a.Summary = strings.TrimSpace(a.Summary)
	a.Decision = strings.TrimSpace(a.Decision)
	a.SentenceType = strings.ToUpper(strings.TrimSpace(a.SentenceType))

	if len(a.Summary) < 50 || len(a.Summary) > 8000 {
		return false
	}
	if injectionPattern.MatchString(a.Summary) || injectionPattern.MatchString(a.Theme) {
		return false
	}
	if !validSentenceTypes[a.SentenceType] {
		a.SentenceType = ""
	}
	a.Theme = truncateRunes(a.Theme, 300)
	a.Decision = truncateRunes(a.Decision, 2000)
	return true
}

// truncateRunes caps s at limit bytes without splitting a rune.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
