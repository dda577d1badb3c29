package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokinpui/pick.go/model"
)

func added(lines ...string) []model.SectionChangedLine {
	out := make([]model.SectionChangedLine, len(lines))
	for i, l := range lines {
		out[i] = model.SectionChangedLine{ChangeType: model.Added, Line: l}
	}
	return out
}

func removed(lines ...string) []model.SectionChangedLine {
	out := make([]model.SectionChangedLine, len(lines))
	for i, l := range lines {
		out[i] = model.SectionChangedLine{ChangeType: model.Removed, Line: l}
	}
	return out
}

func changed(groups ...[]model.SectionChangedLine) model.Section {
	var lines []model.SectionChangedLine
	for _, g := range groups {
		lines = append(lines, g...)
	}
	return model.NewChanged(lines...)
}

func TestRangesOverlap(t *testing.T) {
	require.False(t, RangesOverlap(0, 5, 10, 15))
	require.True(t, RangesOverlap(0, 10, 8, 15))
	require.False(t, RangesOverlap(5, 15, 15, 25))
	require.True(t, RangesOverlap(3, 4, 3, 4))
	require.True(t, RangesOverlap(3, 3, 0, 10))
}

func TestCalculateSectionLineRanges(t *testing.T) {
	sections := []model.Section{
		model.NewUnchanged("a\n", "b\n", "c\n"),
		changed(removed("d\n"), added("e\n", "f\n")),
		model.NewUnchanged("g\n", "h\n"),
	}
	require.Equal(t, []SectionLineRange{
		{SectionIndex: 0, StartLine: 0, EndLine: 3},
		{SectionIndex: 1, StartLine: 3, EndLine: 5},
		{SectionIndex: 2, StartLine: 5, EndLine: 7},
	}, CalculateSectionLineRanges(sections))
}

func TestCalculateSectionLineRangesSkipsNonTextSections(t *testing.T) {
	sections := []model.Section{
		model.NewFileModeChange(model.FileModeDefault, model.FileModeExec),
		model.NewUnchanged("a\n"),
		changed(removed("b\n")),
		model.NewUnchanged("c\n"),
	}
	ranges := CalculateSectionLineRanges(sections)
	require.Equal(t, []SectionLineRange{
		{SectionIndex: 0, StartLine: 0, EndLine: 0},
		{SectionIndex: 1, StartLine: 0, EndLine: 1},
		{SectionIndex: 2, StartLine: 1, EndLine: 1},
		{SectionIndex: 3, StartLine: 1, EndLine: 2},
	}, ranges)
	require.True(t, ranges[0].Empty())
	require.True(t, ranges[2].Empty())
}

func TestFilterSectionIndicesByRange(t *testing.T) {
	ranges := []SectionLineRange{
		{SectionIndex: 0, StartLine: 0, EndLine: 3},
		{SectionIndex: 1, StartLine: 3, EndLine: 3},
		{SectionIndex: 2, StartLine: 3, EndLine: 5},
		{SectionIndex: 3, StartLine: 5, EndLine: 7},
	}

	require.Equal(t, []int{0, 2}, FilterSectionIndicesByRange(ranges, 2, 4))
	// A one-line span still matches the section holding it.
	require.Equal(t, []int{2}, FilterSectionIndicesByRange(ranges, 4, 5))
	// Zero-width sections are never assigned, even inside the span.
	require.Equal(t, []int{0, 2, 3}, FilterSectionIndicesByRange(ranges, 0, 7))
	require.Nil(t, FilterSectionIndicesByRange(ranges, 9, 12))
}

func TestFilterSectionIndicesKeepsSharedSections(t *testing.T) {
	ranges := []SectionLineRange{
		{SectionIndex: 0, StartLine: 0, EndLine: 10},
	}
	require.Equal(t, []int{0}, FilterSectionIndicesByRange(ranges, 0, 4))
	require.Equal(t, []int{0}, FilterSectionIndicesByRange(ranges, 5, 9))
}
