// Package segmenter recovers the canonical structure of a judicial decision
// (sentencia) from plain extracted text: the introductory header, the court's
// reasoning, and the binding operative part. Source documents carry no
// reliable markup, so detection is rule-based with positional fallbacks;
// the engine always produces a structure for non-empty input.
package segmenter

import (
	"fmt"
	"strings"
)

// SectionKind identifies one of the three canonical sections of a judgment.
type SectionKind int

const (
	SectionIntroduction SectionKind = iota
	SectionConsiderations
	SectionResolution
)

func (k SectionKind) String() string {
	switch k {
	case SectionIntroduction:
		return "introduction"
	case SectionConsiderations:
		return "considerations"
	case SectionResolution:
		return "resolution"
	}
	return "unknown"
}

// DocumentStructure is the recovered structure of a judgment. It is built
// once per Segment call and never mutated afterward.
type DocumentStructure struct {
	Introduction   string   `json:"introduction"`
	Considerations string   `json:"considerations"`
	Resolution     string   `json:"resolution"`
	Other          []string `json:"other,omitempty"`
}

// Metadata reports structural quality alongside a DocumentStructure.
type Metadata struct {
	Complete bool     `json:"complete"`
	Warnings []string `json:"warnings"`
}

// Config controls section accumulation limits.
type Config struct {
	IntroductionLimit   int // Soft cap on generic introduction accumulation.
	ConsiderationsLimit int // Soft cap on generic considerations accumulation.
}

// DefaultConfig returns the limits used in production.
func DefaultConfig() Config {
	return Config{
		IntroductionLimit:   2000,
		ConsiderationsLimit: 4000,
	}
}

// Segmenter is a pure, synchronous segmentation engine. One instance may be
// shared freely: Segment allocates and returns fresh data on every call.
type Segmenter struct {
	cfg Config
}

// New creates a Segmenter with the given config. Zero limits fall back to
// defaults.
func New(cfg Config) *Segmenter {
	def := DefaultConfig()
	if cfg.IntroductionLimit <= 0 {
		cfg.IntroductionLimit = def.IntroductionLimit
	}
	if cfg.ConsiderationsLimit <= 0 {
		cfg.ConsiderationsLimit = def.ConsiderationsLimit
	}
	return &Segmenter{cfg: cfg}
}

// Segment recovers the canonical structure from raw judgment text. It never
// returns an error: when structural detection fails, positional fallbacks
// take over and the failure is recorded as a warning.
func (s *Segmenter) Segment(text string) (st DocumentStructure, meta Metadata) {
	defer func() {
		// Last-resort guarantee of total function: any panic inside the
		// detection path degrades to a word-count thirds split of the
		// original text.
		if r := recover(); r != nil {
			st = splitByWordThirds(text, s.cfg)
			meta.Warnings = append(meta.Warnings, fmt.Sprintf("segmentation recovered from panic: %v", r))
			meta.Complete = IsComplete(st)
			if !meta.Complete {
				meta.Warnings = append(meta.Warnings, "structure incomplete")
			}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return DocumentStructure{}, Metadata{Warnings: []string{"empty document"}}
	}

	normalized := Normalize(text)
	paragraphs := splitParagraphs(normalized)

	st, warnings := s.accumulate(normalized, paragraphs)
	meta.Warnings = warnings

	meta.Complete = IsComplete(st)
	if !meta.Complete {
		meta.Warnings = append(meta.Warnings, "structure incomplete")
	}
	return st, meta
}

// accumulate runs the Tier 1 state machine over filtered paragraphs and
// applies the Tier 2 / Tier 3 fallbacks when structural detection fails.
func (s *Segmenter) accumulate(normalized string, paragraphs []Paragraph) (DocumentStructure, []string) {
	var (
		intro, cons, res        strings.Builder
		introLocked, consLocked bool
		resLocked               bool
		introClosed, consClosed bool
		open                    = SectionKind(-1)
		other                   []string
		warnings                []string
	)

	appendTo := func(b *strings.Builder, text string) {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}

	for _, p := range paragraphs {
		lower := strings.ToLower(p.Text)

		switch {
		case resLocked:
			// Resolution owns the rest of the document; only the orthogonal
			// doctrine tagging below still applies.

		case !introLocked && matchesAny(lower, introductionSignals):
			introLocked = true
			open = SectionIntroduction
			appendTo(&intro, p.Text)

		case !consLocked && matchesAny(lower, considerationsSignals):
			consLocked = true
			open = SectionConsiderations
			appendTo(&cons, p.Text)

		case matchesResolution(p.Text):
			resLocked = true
			open = SectionResolution
			// The operative part carries the binding orders: take the
			// verbatim tail of the normalized text so nothing after the
			// heading is ever dropped or truncated.
			res.Reset()
			res.WriteString(normalized[p.Offset:])

		default:
			switch open {
			case SectionIntroduction:
				if !introClosed {
					appendTo(&intro, p.Text)
					if intro.Len() > s.cfg.IntroductionLimit {
						introClosed = true
					}
				}
			case SectionConsiderations:
				if !consClosed {
					appendTo(&cons, p.Text)
					if cons.Len() > s.cfg.ConsiderationsLimit {
						consClosed = true
					}
				}
			}
		}

		// Doctrine excerpts are copied regardless of section assignment.
		if len(p.Text) > doctrineMinLen && matchesAny(lower, doctrineSignals) {
			other = append(other, p.Text)
		}
	}

	// Tier 2: the operative part must be captured even when it matches no
	// structural heading pattern.
	tier2Found := false
	if !resLocked {
		if idx := resuelveOffset(normalized); idx >= 0 {
			res.Reset()
			res.WriteString(normalized[idx:])
			tier2Found = true
			warnings = append(warnings, "resolution located by raw text search")
		}
	}

	// Tier 3: zero structural signal anywhere, redistribute by position.
	if !introLocked && !consLocked && !resLocked && !tier2Found {
		warnings = append(warnings, "fell back to positional split")
		return splitByPosition(paragraphs, s.cfg), warnings
	}

	return DocumentStructure{
		Introduction:   intro.String(),
		Considerations: cons.String(),
		Resolution:     res.String(),
		Other:          other,
	}, warnings
}

// splitByPosition redistributes filtered paragraphs 20/60/20. Introduction
// and considerations keep their caps; the resolution share is uncapped.
func splitByPosition(paragraphs []Paragraph, cfg Config) DocumentStructure {
	n := len(paragraphs)
	if n == 0 {
		return DocumentStructure{}
	}
	introEnd := n / 5
	consEnd := introEnd + n*3/5

	var intro, cons, res strings.Builder
	for i, p := range paragraphs {
		switch {
		case i < introEnd:
			capAppend(&intro, p.Text, cfg.IntroductionLimit)
		case i < consEnd:
			capAppend(&cons, p.Text, cfg.ConsiderationsLimit)
		default:
			if res.Len() > 0 {
				res.WriteString("\n\n")
			}
			res.WriteString(p.Text)
		}
	}
	return DocumentStructure{
		Introduction:   intro.String(),
		Considerations: cons.String(),
		Resolution:     res.String(),
	}
}

// splitByWordThirds is the outer failure fallback: consecutive word-count
// thirds of the original, unfiltered text.
func splitByWordThirds(text string, cfg Config) DocumentStructure {
	words := strings.Fields(text)
	n := len(words)
	if n == 0 {
		return DocumentStructure{}
	}
	first := strings.Join(words[:n/3], " ")
	middle := strings.Join(words[n/3:2*n/3], " ")
	last := strings.Join(words[2*n/3:], " ")

	if len(first) > cfg.IntroductionLimit {
		first = first[:truncateToRune(first, cfg.IntroductionLimit)]
	}
	if len(middle) > cfg.ConsiderationsLimit {
		middle = middle[:truncateToRune(middle, cfg.ConsiderationsLimit)]
	}
	return DocumentStructure{
		Introduction:   first,
		Considerations: middle,
		Resolution:     last,
	}
}

func capAppend(b *strings.Builder, text string, limit int) {
	if b.Len() >= limit {
		return
	}
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	remaining := limit - b.Len()
	if len(text) > remaining {
		text = text[:truncateToRune(text, remaining)]
	}
	b.WriteString(text)
}

// truncateToRune backs the byte limit off to the nearest rune boundary.
func truncateToRune(s string, limit int) int {
	if limit >= len(s) {
		return len(s)
	}
	for limit > 0 && !isRuneStart(s[limit]) {
		limit--
	}
	return limit
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
