// Package selection aggregates and toggles the checked state of a commit's
// diff at commit, file, section, line, container and member scope.
package selection

import (
	"fmt"
	"strings"

	"github.com/sokinpui/pick.go/model"
)

// ScopeKind identifies the level a Scope addresses.
type ScopeKind int

const (
	ScopeCommit ScopeKind = iota
	ScopeFile
	ScopeSection
	ScopeLine
	ScopeContainer
	ScopeMember
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeCommit:
		return "commit"
	case ScopeFile:
		return "file"
	case ScopeSection:
		return "section"
	case ScopeLine:
		return "line"
	case ScopeContainer:
		return "container"
	case ScopeMember:
		return "member"
	default:
		return fmt.Sprintf("ScopeKind(%d)", int(k))
	}
}

// Scope addresses a subtree of a commit. Only the index fields relevant to
// Kind are read.
type Scope struct {
	Kind      ScopeKind
	File      int
	Section   int
	Line      int
	Container int
	Member    int
}

func Commit() Scope                   { return Scope{Kind: ScopeCommit} }
func File(file int) Scope             { return Scope{Kind: ScopeFile, File: file} }
func Section(file, section int) Scope { return Scope{Kind: ScopeSection, File: file, Section: section} }

func Line(file, section, line int) Scope {
	return Scope{Kind: ScopeLine, File: file, Section: section, Line: line}
}

func Container(file, container int) Scope {
	return Scope{Kind: ScopeContainer, File: file, Container: container}
}

func Member(file, container, member int) Scope {
	return Scope{Kind: ScopeMember, File: file, Container: container, Member: member}
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopeCommit:
		return "commit"
	case ScopeFile:
		return fmt.Sprintf("file[%d]", s.File)
	case ScopeSection:
		return fmt.Sprintf("file[%d].section[%d]", s.File, s.Section)
	case ScopeLine:
		return fmt.Sprintf("file[%d].section[%d].line[%d]", s.File, s.Section, s.Line)
	case ScopeContainer:
		return fmt.Sprintf("file[%d].container[%d]", s.File, s.Container)
	case ScopeMember:
		return fmt.Sprintf("file[%d].container[%d].member[%d]", s.File, s.Container, s.Member)
	default:
		return s.Kind.String()
	}
}

// State returns the aggregate value of every editable leaf under scope. A
// scope without leaves is Unchecked.
func State(commit *model.Commit, scope Scope) model.Tristate {
	checked, total := Counts(commit, scope)
	return tristate(checked, total)
}

// Counts returns how many editable leaves under scope are checked, and how
// many there are.
func Counts(commit *model.Commit, scope Scope) (checked, total int) {
	for _, leaf := range leaves(commit, scope) {
		total++
		if *leaf {
			checked++
		}
	}
	return checked, total
}

// Toggle checks every editable leaf under scope unless all of them already
// are, in which case it clears them. Cached container flags of the affected
// files are refreshed.
func Toggle(commit *model.Commit, scope Scope) {
	set := State(commit, scope) != model.Checked
	for _, leaf := range leaves(commit, scope) {
		*leaf = set
	}
	refreshScope(commit, scope)
}

// SetAll sets every editable leaf of the commit to checked.
func SetAll(commit *model.Commit, checked bool) {
	for _, leaf := range leaves(commit, Commit()) {
		*leaf = checked
	}
	for i := range commit.Files {
		Refresh(&commit.Files[i])
	}
}

// Refresh recomputes the cached Checked and Partial flags of every container
// and member of file from its sections.
func Refresh(file *model.File) {
	for c := range file.Containers {
		container := &file.Containers[c]
		for m := range container.Members {
			member := &container.Members[m]
			state := indicesState(file, member.SectionIndices)
			member.Checked = state == model.Checked
			member.Partial = state == model.Partial
		}
		state := indicesState(file, container.AllSectionIndices())
		container.Checked = state == model.Checked
		container.Partial = state == model.Partial
	}
}

// FileState is State for a single file outside of a commit.
func FileState(file *model.File) model.Tristate {
	var checked, total int
	for i := range file.Sections {
		for _, leaf := range sectionLeaves(&file.Sections[i]) {
			total++
			if *leaf {
				checked++
			}
		}
	}
	return tristate(checked, total)
}

// SelectedContents reconstructs the text that results from the current
// selection. A line is kept iff it is unchanged, removed and unchecked, or
// added and checked.
func SelectedContents(file model.File) model.SelectedChanges {
	var b strings.Builder
	result := model.SelectedChanges{Mode: file.FileMode}
	for _, s := range file.Sections {
		switch s.Kind {
		case model.SectionUnchanged:
			for _, line := range s.Lines {
				b.WriteString(line)
			}
		case model.SectionChanged:
			for _, line := range s.Changed {
				keep := (line.ChangeType == model.Removed && !line.Checked) ||
					(line.ChangeType == model.Added && line.Checked)
				if keep {
					b.WriteString(line.Line)
				}
			}
		case model.SectionFileMode:
			if s.Checked {
				result.Mode = s.NewMode
			} else {
				result.Mode = s.OldMode
			}
		case model.SectionBinary:
			if s.Checked {
				result.Binary = model.BinaryNew
			} else {
				result.Binary = model.BinaryOld
			}
		}
	}
	result.Contents = b.String()
	return result
}

func tristate(checked, total int) model.Tristate {
	switch {
	case checked == 0:
		return model.Unchecked
	case checked == total:
		return model.Checked
	default:
		return model.Partial
	}
}

func indicesState(file *model.File, indices []int) model.Tristate {
	var checked, total int
	for _, i := range indices {
		for _, leaf := range sectionLeaves(&file.Sections[i]) {
			total++
			if *leaf {
				checked++
			}
		}
	}
	return tristate(checked, total)
}

func refreshScope(commit *model.Commit, scope Scope) {
	if scope.Kind == ScopeCommit {
		for i := range commit.Files {
			Refresh(&commit.Files[i])
		}
		return
	}
	Refresh(&commit.Files[scope.File])
}

// sectionLeaves returns pointers to the selection bits of s. Unchanged
// sections have none; FileMode and Binary sections are one opaque leaf.
func sectionLeaves(s *model.Section) []*bool {
	switch s.Kind {
	case model.SectionChanged:
		out := make([]*bool, len(s.Changed))
		for i := range s.Changed {
			out[i] = &s.Changed[i].Checked
		}
		return out
	case model.SectionFileMode, model.SectionBinary:
		return []*bool{&s.Checked}
	default:
		return nil
	}
}

// leaves resolves scope to the leaf bits under it. It panics when an index is
// out of range.
func leaves(commit *model.Commit, scope Scope) []*bool {
	if scope.Kind == ScopeCommit {
		var out []*bool
		for f := range commit.Files {
			out = append(out, fileLeaves(&commit.Files[f])...)
		}
		return out
	}

	checkIndex(scope, "file", scope.File, len(commit.Files))
	file := &commit.Files[scope.File]

	switch scope.Kind {
	case ScopeFile:
		return fileLeaves(file)
	case ScopeSection:
		checkIndex(scope, "section", scope.Section, len(file.Sections))
		return sectionLeaves(&file.Sections[scope.Section])
	case ScopeLine:
		checkIndex(scope, "section", scope.Section, len(file.Sections))
		section := &file.Sections[scope.Section]
		if section.Kind != model.SectionChanged {
			panic(fmt.Sprintf("selection: %s addresses a line of a %s section", scope, section.Kind))
		}
		checkIndex(scope, "line", scope.Line, len(section.Changed))
		return []*bool{&section.Changed[scope.Line].Checked}
	case ScopeContainer:
		checkIndex(scope, "container", scope.Container, len(file.Containers))
		return indexLeaves(file, file.Containers[scope.Container].AllSectionIndices())
	case ScopeMember:
		checkIndex(scope, "container", scope.Container, len(file.Containers))
		container := &file.Containers[scope.Container]
		checkIndex(scope, "member", scope.Member, len(container.Members))
		return indexLeaves(file, container.Members[scope.Member].SectionIndices)
	default:
		panic(fmt.Sprintf("selection: unknown scope kind %s", scope.Kind))
	}
}

func fileLeaves(file *model.File) []*bool {
	var out []*bool
	for i := range file.Sections {
		out = append(out, sectionLeaves(&file.Sections[i])...)
	}
	return out
}

func indexLeaves(file *model.File, indices []int) []*bool {
	var out []*bool
	for _, i := range indices {
		if i < 0 || i >= len(file.Sections) {
			panic(fmt.Sprintf("selection: section index %d out of range [0,%d) in %s", i, len(file.Sections), file.Path))
		}
		out = append(out, sectionLeaves(&file.Sections[i])...)
	}
	return out
}

func checkIndex(scope Scope, what string, index, length int) {
	if index < 0 || index >= length {
		panic(fmt.Sprintf("selection: %s index %d out of range [0,%d) for %s", what, index, length, scope))
	}
}
