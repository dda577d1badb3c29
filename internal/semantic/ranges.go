package semantic

import "github.com/sokinpui/pick.go/model"

// SectionLineRange is the half-open interval [StartLine, EndLine) a section
// occupies in the new file.
type SectionLineRange struct {
	SectionIndex int
	StartLine    int
	EndLine      int
}

// Empty reports whether the section occupies no new-file lines.
func (r SectionLineRange) Empty() bool {
	return r.EndLine <= r.StartLine
}

// CalculateSectionLineRanges lays sections out in new-file coordinates.
// Unchanged sections advance the offset by their line count, changed ones by
// their added lines only; file mode and binary sections occupy nothing.
func CalculateSectionLineRanges(sections []model.Section) []SectionLineRange {
	ranges := make([]SectionLineRange, len(sections))
	offset := 0
	for i, s := range sections {
		start := offset
		offset += s.NewLineCount()
		ranges[i] = SectionLineRange{SectionIndex: i, StartLine: start, EndLine: offset}
	}
	return ranges
}

// RangesOverlap reports whether [a, b) and [c, d) intersect.
func RangesOverlap(a, b, c, d int) bool {
	return a < d && c < b
}

// FilterSectionIndicesByRange returns the indices of the non-empty sections
// overlapping [start, end), in order. A section straddling several ranges is
// reported for each of them.
func FilterSectionIndicesByRange(ranges []SectionLineRange, start, end int) []int {
	var out []int
	for _, r := range ranges {
		if r.Empty() {
			continue
		}
		if RangesOverlap(r.StartLine, r.EndLine, start, end) {
			out = append(out, r.SectionIndex)
		}
	}
	return out
}
