package segmenter

import (
	"strings"
	"testing"
)

// sentences builds text out of fixed-width sentences ending in ". ".
func sentences(n, width int) string {
	sentence := strings.Repeat("x", width-2) + ". "
	return strings.TrimRight(strings.Repeat(sentence, n), " ")
}

func TestBuildSummary_SentenceBoundaryTruncation(t *testing.T) {
	// 4500 chars of considerations against the 4000 sub-budget: the cut must
	// land on the last period inside the window, which falls in its last 20%.
	st := DocumentStructure{Considerations: sentences(45, 100)}
	out := BuildSummary(st, DefaultSummaryBudget)

	body := strings.TrimPrefix(out, "CONSIDERACIONES:\n")
	if body == out {
		t.Fatalf("missing considerations header: %q", prefix(out, 40))
	}
	if len(body) > 4000 {
		t.Errorf("considerations exceed sub-budget: %d", len(body))
	}
	if !strings.HasSuffix(body, ".") {
		t.Errorf("truncation should preserve the sentence boundary, got suffix %q", body[len(body)-10:])
	}
	if strings.Contains(body, "...") {
		t.Errorf("boundary cut should not carry an ellipsis marker")
	}
}

func TestBuildSummary_HardTruncationWithEllipsis(t *testing.T) {
	// No period or newline anywhere: the window is hard-truncated.
	st := DocumentStructure{Introduction: strings.Repeat("y", 3000)}
	out := BuildSummary(st, DefaultSummaryBudget)

	body := strings.TrimPrefix(out, "INTRODUCCIÓN:\n")
	if !strings.HasSuffix(body, "...") {
		t.Errorf("expected ellipsis marker on hard truncation")
	}
	if len(body) > 2000+3 {
		t.Errorf("introduction exceeds sub-budget: %d", len(body))
	}
}

func TestBuildSummary_SectionLabelsInOrder(t *testing.T) {
	st := DocumentStructure{
		Introduction:   "Texto de encabezado.",
		Considerations: "Texto de razonamiento.",
		Resolution:     "PRIMERO.- Conceder.",
	}
	out := BuildSummary(st, 0) // zero budget falls back to the default

	i := strings.Index(out, "INTRODUCCIÓN:")
	c := strings.Index(out, "CONSIDERACIONES:")
	r := strings.Index(out, "RESOLUCIÓN:")
	if i < 0 || c < 0 || r < 0 || !(i < c && c < r) {
		t.Errorf("section labels missing or out of order: %d %d %d\n%s", i, c, r, out)
	}
	if !strings.Contains(out, "PRIMERO.- Conceder.") {
		t.Errorf("short sections must pass through untouched")
	}
}

func TestBuildSummary_AbsentSectionsOmitted(t *testing.T) {
	st := DocumentStructure{Resolution: "SEGUNDO.- Notificar."}
	out := BuildSummary(st, DefaultSummaryBudget)

	if strings.Contains(out, "INTRODUCCIÓN") || strings.Contains(out, "CONSIDERACIONES") {
		t.Errorf("absent sections must not emit headers: %q", out)
	}
	if !strings.HasPrefix(out, "RESOLUCIÓN:\n") {
		t.Errorf("expected resolution header, got %q", prefix(out, 30))
	}
}

func TestBuildSummary_TotalBudgetEnforced(t *testing.T) {
	st := DocumentStructure{
		Introduction:   sentences(25, 100),
		Considerations: sentences(45, 100),
		Resolution:     sentences(25, 100),
	}
	budget := 3000
	out := BuildSummary(st, budget)
	if len(out) > budget+3 { // ellipsis marker may sit on the edge
		t.Errorf("digest exceeds total budget: %d > %d", len(out), budget)
	}
}

func TestBuildSummary_SmallBudgetScalesSubBudgets(t *testing.T) {
	st := DocumentStructure{Considerations: sentences(45, 100)}
	out := BuildSummary(st, 1000)

	body := strings.TrimPrefix(out, "CONSIDERACIONES:\n")
	if len(body) > 500 {
		t.Errorf("sub-budget should scale to 0.5*B, got %d chars", len(body))
	}
}
