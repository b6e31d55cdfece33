package segmenter

// Minimum section lengths for a structure to count as legally complete.
const (
	minIntroductionLen   = 200
	minConsiderationsLen = 500
	minResolutionLen     = 100
)

// IsComplete reports whether the recovered structure looks legally complete:
// all three canonical sections meet their minimum lengths.
func IsComplete(st DocumentStructure) bool {
	return len(st.Introduction) >= minIntroductionLen &&
		len(st.Considerations) >= minConsiderationsLen &&
		len(st.Resolution) >= minResolutionLen
}
