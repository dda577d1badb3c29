package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/pick.go/internal/differ"
	"github.com/sokinpui/pick.go/internal/selection"
	"github.com/sokinpui/pick.go/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeySpace}

func loaded(t *testing.T, commit *model.Commit, flat bool) Model {
	t.Helper()
	m := New(func() (*model.Commit, error) { return commit, nil }, flat)
	next, _ := m.Update(loadedMsg{commit: commit})
	return next.(Model)
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func flatCommit() *model.Commit {
	return &model.Commit{Files: []model.File{differ.BuildFile("a.txt", "a\nb\n", "a\nc\n")}}
}

// semanticCommit has struct S spanning sections 0..2 with members on the two
// changed sections.
func semanticCommit() *model.Commit {
	file := differ.BuildFile("lib.rs", "struct S {\n    a: i32,\n}\n", "struct S {\n    b: i32,\n}\n")
	file.Containers = []model.SemanticContainer{{
		Kind:           model.Struct(),
		Name:           "S",
		SectionIndices: []int{1},
		Members: []model.SemanticMember{
			{Kind: model.MemberField, Name: "b", SectionIndices: []int{1}},
		},
	}}
	return &model.Commit{Files: []model.File{file}}
}

func TestBuildRowsFlat(t *testing.T) {
	commit := flatCommit()
	open := expansion{}
	rows := buildRows(commit, false, open)
	require.Len(t, rows, 2)
	require.Equal(t, rowFile, rows[0].kind)
	require.Equal(t, "a.txt", rows[0].label)
	require.Equal(t, rowSection, rows[1].kind)
	require.Equal(t, "line 2: -1 +1", rows[1].label)

	open.set(rows[1], true)
	rows = buildRows(commit, false, open)
	require.Len(t, rows, 4)
	require.Equal(t, "- b", rows[2].label)
	require.Equal(t, "+ c", rows[3].label)
	require.Equal(t, selection.Line(0, 1, 1), rows[3].scope)

	open.set(rows[0], false)
	require.Len(t, buildRows(commit, false, open), 1)
}

func TestBuildRowsSemantic(t *testing.T) {
	commit := semanticCommit()
	open := expansion{}
	rows := buildRows(commit, false, open)
	require.Len(t, rows, 2)
	require.Equal(t, rowContainer, rows[1].kind)
	require.Equal(t, "struct S", rows[1].label)

	open.set(rows[1], true)
	rows = buildRows(commit, false, open)
	require.Len(t, rows, 3)
	require.Equal(t, rowMember, rows[2].kind)
	require.Equal(t, "field b", rows[2].label)

	flat := buildRows(commit, true, open)
	require.Equal(t, rowSection, flat[1].kind)
}

func TestToggleSectionAndLine(t *testing.T) {
	commit := flatCommit()
	m := loaded(t, commit, false)

	m = press(m, runes("j"), space)
	require.Equal(t, model.Checked, selection.State(commit, selection.File(0)))
	require.Equal(t, "a\nc\n", selection.SelectedContents(commit.Files[0]).Contents)

	m = press(m, runes("l"), runes("j"), space)
	require.Len(t, m.rows, 4)
	require.Equal(t, model.Partial, selection.State(commit, selection.File(0)))
	require.Equal(t, "a\nb\nc\n", selection.SelectedContents(commit.Files[0]).Contents)
}

func TestToggleAll(t *testing.T) {
	commit := semanticCommit()
	m := loaded(t, commit, false)

	m = press(m, runes("a"))
	require.Equal(t, model.Checked, selection.State(commit, selection.Commit()))
	require.True(t, commit.Files[0].Containers[0].Checked)

	press(m, runes("a"))
	require.Equal(t, model.Unchecked, selection.State(commit, selection.Commit()))
	require.False(t, commit.Files[0].Containers[0].Checked)
}

func TestCollapseMovesToParent(t *testing.T) {
	m := loaded(t, semanticCommit(), false)
	m = press(m, runes("j"), runes("l"), runes("j"))
	require.Equal(t, 2, m.cursor)

	m = press(m, runes("h"))
	require.Equal(t, 1, m.cursor)
	m = press(m, runes("h"))
	require.Len(t, m.rows, 2)
}

func TestFlatSwitch(t *testing.T) {
	m := loaded(t, semanticCommit(), false)
	m = press(m, runes("f"))
	require.True(t, m.flat)
	require.Equal(t, rowSection, m.rows[1].kind)
}

func TestConfirmAndCancel(t *testing.T) {
	m := press(loaded(t, flatCommit(), false), runes("c"))
	require.True(t, m.Confirmed())
	require.NotNil(t, m.Commit())

	m = press(loaded(t, flatCommit(), false), runes("q"))
	require.False(t, m.Confirmed())
}

func TestCursorStaysInRange(t *testing.T) {
	m := loaded(t, flatCommit(), false)
	m = press(m, runes("k"), runes("k"))
	require.Equal(t, 0, m.cursor)
	m = press(m, runes("j"), runes("j"), runes("j"))
	require.Equal(t, 1, m.cursor)
}

func TestRenderPreview(t *testing.T) {
	commit := flatCommit()
	rows := buildRows(commit, false, expansion{})
	out := renderPreview(commit, rows[1])
	require.Contains(t, out, "- b")
	require.Contains(t, out, "+ c")
}
