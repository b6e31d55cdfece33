package segmenter

import "strings"

// DefaultSummaryBudget caps the digest sent to downstream AI analysis.
const DefaultSummaryBudget = 10000

// Section sub-budget ceilings and shares of the overall budget.
const (
	introSummaryCeil = 2000
	consSummaryCeil  = 4000
	resSummaryCeil   = 2000
)

// BuildSummary produces a budget-capped digest of the structure for
// downstream consumption. Sections exceeding their sub-budget are truncated
// at a sentence boundary when one falls late enough in the window.
func BuildSummary(st DocumentStructure, budget int) string {
	if budget <= 0 {
		budget = DefaultSummaryBudget
	}

	introBudget := min(introSummaryCeil, budget*20/100)
	consBudget := min(consSummaryCeil, budget*50/100)
	resBudget := min(resSummaryCeil, budget*25/100)

	var parts []string
	if st.Introduction != "" {
		parts = append(parts, "INTRODUCCIÓN:\n"+truncateAtBoundary(st.Introduction, introBudget))
	}
	if st.Considerations != "" {
		parts = append(parts, "CONSIDERACIONES:\n"+truncateAtBoundary(st.Considerations, consBudget))
	}
	if st.Resolution != "" {
		parts = append(parts, "RESOLUCIÓN:\n"+truncateAtBoundary(st.Resolution, resBudget))
	}

	out := strings.Join(parts, "\n\n")
	if len(out) > budget {
		out = truncateAtBoundary(out, budget)
	}
	return out
}

// truncateAtBoundary cuts text to at most limit bytes. If the last period or
// newline inside the window falls at or beyond 80% of it, the cut preserves
// that boundary; otherwise the window is hard-truncated with an ellipsis.
func truncateAtBoundary(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return text
	}
	window := text[:truncateToRune(text, limit)]

	cut := strings.LastIndexByte(window, '.')
	if nl := strings.LastIndexByte(window, '\n'); nl > cut {
		cut = nl
	}
	if cut >= limit*80/100 {
		return window[:cut+1]
	}
	return window + "..."
}
