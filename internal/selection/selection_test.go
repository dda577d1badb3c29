package selection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokinpui/pick.go/internal/differ"
	"github.com/sokinpui/pick.go/model"
)

const (
	oldSource = "fn a() {\n    1\n}\n\nfn b() {\n    2\n}\n"
	newSource = "fn a() {\n    10\n    11\n}\n\nfn b() {\n    2\n}\nfn c() {}\n"
)

func newCommit(t *testing.T) *model.Commit {
	t.Helper()
	file := differ.BuildFile("lib.rs", oldSource, newSource)
	require.NotEmpty(t, file.Sections)
	return &model.Commit{Files: []model.File{file}}
}

func editableLeafCount(file *model.File) (checked, total int) {
	for _, s := range file.Sections {
		switch s.Kind {
		case model.SectionChanged:
			for _, l := range s.Changed {
				total++
				if l.Checked {
					checked++
				}
			}
		case model.SectionFileMode, model.SectionBinary:
			total++
			if s.Checked {
				checked++
			}
		}
	}
	return checked, total
}

func changedSection(t *testing.T, file *model.File) int {
	t.Helper()
	for i, s := range file.Sections {
		if s.Kind == model.SectionChanged {
			return i
		}
	}
	t.Fatal("no changed section")
	return -1
}

func TestSelectNoneReproducesOld(t *testing.T) {
	commit := newCommit(t)
	require.Equal(t, model.Unchecked, State(commit, Commit()))
	require.Equal(t, oldSource, SelectedContents(commit.Files[0]).Contents)
}

func TestSelectAllReproducesNew(t *testing.T) {
	commit := newCommit(t)
	Toggle(commit, Commit())
	require.Equal(t, model.Checked, State(commit, Commit()))
	require.Equal(t, model.Checked, State(commit, File(0)))
	require.Equal(t, newSource, SelectedContents(commit.Files[0]).Contents)

	Toggle(commit, Commit())
	require.Equal(t, model.Unchecked, State(commit, Commit()))
	require.Equal(t, oldSource, SelectedContents(commit.Files[0]).Contents)
}

func TestSetAll(t *testing.T) {
	commit := newCommit(t)
	SetAll(commit, true)
	require.Equal(t, newSource, SelectedContents(commit.Files[0]).Contents)
	SetAll(commit, false)
	require.Equal(t, oldSource, SelectedContents(commit.Files[0]).Contents)
}

func TestToggleLineGivesPartial(t *testing.T) {
	commit := newCommit(t)
	idx := changedSection(t, &commit.Files[0])

	Toggle(commit, Line(0, idx, 0))
	require.Equal(t, model.Partial, State(commit, Section(0, idx)))
	require.Equal(t, model.Partial, State(commit, File(0)))
	require.Equal(t, model.Partial, State(commit, Commit()))

	// Partial toggles to fully checked.
	Toggle(commit, Section(0, idx))
	require.Equal(t, model.Checked, State(commit, Section(0, idx)))

	Toggle(commit, Section(0, idx))
	require.Equal(t, model.Unchecked, State(commit, Section(0, idx)))
}

func TestSelectedContentsLineRule(t *testing.T) {
	file := model.File{
		Path: "f.txt",
		Sections: []model.Section{
			model.NewUnchanged("keep\n"),
			model.NewChanged(
				model.SectionChangedLine{ChangeType: model.Removed, Line: "removed-unchecked\n"},
				model.SectionChangedLine{ChangeType: model.Removed, Line: "removed-checked\n", Checked: true},
				model.SectionChangedLine{ChangeType: model.Added, Line: "added-unchecked\n"},
				model.SectionChangedLine{ChangeType: model.Added, Line: "added-checked\n", Checked: true},
			),
		},
	}
	got := SelectedContents(file).Contents
	require.Equal(t, "keep\nremoved-unchecked\nadded-checked\n", got)
}

func TestUnchangedScopeHasNoLeaves(t *testing.T) {
	commit := &model.Commit{Files: []model.File{{
		Path:     "f.txt",
		Sections: []model.Section{model.NewUnchanged("a\n")},
	}}}
	require.Equal(t, model.Unchecked, State(commit, Section(0, 0)))
	require.Equal(t, model.Unchecked, State(commit, File(0)))

	Toggle(commit, File(0))
	require.Equal(t, model.Unchecked, State(commit, File(0)))
	require.Equal(t, "a\n", SelectedContents(commit.Files[0]).Contents)
}

func TestFileModeAndBinaryAreOpaqueLeaves(t *testing.T) {
	commit := &model.Commit{Files: []model.File{
		{
			Path:     "run.sh",
			FileMode: model.FileModeDefault,
			Sections: []model.Section{
				model.NewFileModeChange(model.FileModeDefault, model.FileModeExec),
				model.NewUnchanged("echo\n"),
			},
		},
		{
			Path:     "logo.png",
			Sections: []model.Section{model.NewBinary("(binary, 2 bytes)", "(binary, 3 bytes)")},
		},
	}}

	require.Equal(t, model.FileModeDefault, SelectedContents(commit.Files[0]).Mode)
	require.Equal(t, model.BinaryOld, SelectedContents(commit.Files[1]).Binary)

	Toggle(commit, Section(0, 0))
	require.Equal(t, model.Checked, State(commit, File(0)))
	require.Equal(t, model.FileModeExec, SelectedContents(commit.Files[0]).Mode)
	require.Equal(t, model.Partial, State(commit, Commit()))

	Toggle(commit, File(1))
	require.Equal(t, model.BinaryNew, SelectedContents(commit.Files[1]).Binary)
	require.Equal(t, model.Checked, State(commit, Commit()))
}

func containerFile() model.File {
	return model.File{
		Path: "lib.rs",
		Sections: []model.Section{
			model.NewUnchanged("struct S {\n"),
			model.NewChanged(
				model.SectionChangedLine{ChangeType: model.Removed, Line: "    a: u8,\n"},
				model.SectionChangedLine{ChangeType: model.Added, Line: "    a: u16,\n"},
			),
			model.NewUnchanged("    b: u8,\n"),
			model.NewChanged(
				model.SectionChangedLine{ChangeType: model.Added, Line: "    c: u8,\n"},
			),
			model.NewUnchanged("}\n"),
		},
		Containers: []model.SemanticContainer{{
			Kind: model.Struct(),
			Name: "S",
			Members: []model.SemanticMember{
				{Kind: model.MemberField, Name: "a", StartLine: 1, EndLine: 1, SectionIndices: []int{1}},
				{Kind: model.MemberField, Name: "c", StartLine: 3, EndLine: 3, SectionIndices: []int{3}},
			},
		}},
	}
}

func TestContainerAndMemberToggle(t *testing.T) {
	commit := &model.Commit{Files: []model.File{containerFile()}}

	Toggle(commit, Member(0, 0, 0))
	file := &commit.Files[0]
	require.True(t, file.Containers[0].Members[0].Checked)
	require.False(t, file.Containers[0].Members[1].Checked)
	require.True(t, file.Containers[0].Partial)
	require.False(t, file.Containers[0].Checked)
	require.Equal(t, model.Partial, State(commit, Container(0, 0)))

	Toggle(commit, Container(0, 0))
	require.True(t, file.Containers[0].Checked)
	require.False(t, file.Containers[0].Partial)
	require.True(t, file.Containers[0].Members[1].Checked)
	require.Equal(t, "struct S {\n    a: u16,\n    b: u8,\n    c: u8,\n}\n", SelectedContents(*file).Contents)

	Toggle(commit, Container(0, 0))
	require.False(t, file.Containers[0].Checked)
	require.False(t, file.Containers[0].Partial)
	require.Equal(t, model.Unchecked, State(commit, File(0)))
}

func TestRefreshFollowsLineToggles(t *testing.T) {
	commit := &model.Commit{Files: []model.File{containerFile()}}
	Toggle(commit, Line(0, 3, 0))

	member := commit.Files[0].Containers[0].Members[1]
	require.True(t, member.Checked)
	require.False(t, member.Partial)
	require.True(t, commit.Files[0].Containers[0].Partial)
}

func TestOutOfRangeScopePanics(t *testing.T) {
	commit := newCommit(t)
	require.Panics(t, func() { Toggle(commit, File(3)) })
	require.Panics(t, func() { State(commit, Section(0, 99)) })
	require.Panics(t, func() { Toggle(commit, Line(0, 0, 0)) })
	require.Panics(t, func() { Toggle(commit, Container(0, 0)) })
	require.Panics(t, func() { State(commit, File(-1)) })
}

func TestStateMatchesLeavesAfterRandomToggles(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	commit := newCommit(t)
	file := &commit.Files[0]

	var scopes []Scope
	scopes = append(scopes, Commit(), File(0))
	for i, s := range file.Sections {
		scopes = append(scopes, Section(0, i))
		for k := range s.Changed {
			scopes = append(scopes, Line(0, i, k))
		}
	}

	for i := 0; i < 200; i++ {
		Toggle(commit, scopes[rng.Intn(len(scopes))])

		checked, total := editableLeafCount(file)
		want := model.Partial
		switch checked {
		case 0:
			want = model.Unchecked
		case total:
			want = model.Checked
		}
		require.Equal(t, want, State(commit, File(0)))
		require.Equal(t, want, FileState(file))
	}
}

func TestScopeString(t *testing.T) {
	require.Equal(t, "commit", Commit().String())
	require.Equal(t, "file[1].section[2].line[3]", Line(1, 2, 3).String())
	require.Equal(t, "file[0].container[4].member[1]", Member(0, 4, 1).String())
}
