package tui

import (
	"fmt"
	"strings"

	"github.com/sokinpui/pick.go/internal/selection"
	"github.com/sokinpui/pick.go/model"
)

type rowKind int

const (
	rowFile rowKind = iota
	rowContainer
	rowMember
	rowSection
	rowLine
)

// row is one visible line of the selection tree.
type row struct {
	kind   rowKind
	scope  selection.Scope
	depth  int
	label  string
	nested bool
}

// expansion tracks rows whose open state differs from the default. Files
// start open, everything else starts closed.
type expansion map[string]bool

func (e expansion) isOpen(r row) bool {
	if open, ok := e[r.scope.String()]; ok {
		return open
	}
	return r.kind == rowFile
}

func (e expansion) set(r row, open bool) {
	e[r.scope.String()] = open
}

// buildRows flattens the visible part of the commit tree. With flat set, or
// for files without containers, files list their sections directly.
func buildRows(commit *model.Commit, flat bool, open expansion) []row {
	var rows []row
	for fi := range commit.Files {
		file := &commit.Files[fi]
		fr := row{kind: rowFile, scope: selection.File(fi), label: fileLabel(file), nested: true}
		rows = append(rows, fr)
		if !open.isOpen(fr) {
			continue
		}
		if !flat && file.Containers != nil {
			rows = appendContainerRows(rows, file, fi, open)
		} else {
			rows = appendSectionRows(rows, file, fi, allIndices(file), 1, open)
		}
	}
	return rows
}

func appendContainerRows(rows []row, file *model.File, fi int, open expansion) []row {
	for ci, c := range file.Containers {
		cr := row{
			kind:   rowContainer,
			scope:  selection.Container(fi, ci),
			depth:  1,
			label:  fmt.Sprintf("%s %s", c.Kind, c.Name),
			nested: true,
		}
		rows = append(rows, cr)
		if !open.isOpen(cr) {
			continue
		}
		if len(c.Members) == 0 {
			rows = appendSectionRows(rows, file, fi, c.SectionIndices, 2, open)
			continue
		}
		for mi, m := range c.Members {
			mr := row{
				kind:   rowMember,
				scope:  selection.Member(fi, ci, mi),
				depth:  2,
				label:  fmt.Sprintf("%s %s", m.Kind, m.Name),
				nested: true,
			}
			rows = append(rows, mr)
			if open.isOpen(mr) {
				rows = appendSectionRows(rows, file, fi, m.SectionIndices, 3, open)
			}
		}
	}
	return rows
}

func appendSectionRows(rows []row, file *model.File, fi int, indices []int, depth int, open expansion) []row {
	starts := newLineStarts(file.Sections)
	for _, si := range indices {
		s := file.Sections[si]
		switch s.Kind {
		case model.SectionChanged:
			if !s.IsEditable() {
				continue
			}
			sr := row{
				kind:   rowSection,
				scope:  selection.Section(fi, si),
				depth:  depth,
				label:  changedLabel(s, starts[si]),
				nested: true,
			}
			rows = append(rows, sr)
			if !open.isOpen(sr) {
				continue
			}
			for li, l := range s.Changed {
				rows = append(rows, row{
					kind:  rowLine,
					scope: selection.Line(fi, si, li),
					depth: depth + 1,
					label: lineLabel(l),
				})
			}
		case model.SectionFileMode:
			rows = append(rows, row{
				kind:  rowSection,
				scope: selection.Section(fi, si),
				depth: depth,
				label: fmt.Sprintf("mode %s -> %s", s.OldMode, s.NewMode),
			})
		case model.SectionBinary:
			rows = append(rows, row{
				kind:  rowSection,
				scope: selection.Section(fi, si),
				depth: depth,
				label: fmt.Sprintf("binary %s -> %s", s.OldDescription, s.NewDescription),
			})
		}
	}
	return rows
}

func allIndices(file *model.File) []int {
	indices := make([]int, len(file.Sections))
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// newLineStarts returns the 0-indexed new-file line each section starts at.
func newLineStarts(sections []model.Section) []int {
	starts := make([]int, len(sections))
	line := 0
	for i, s := range sections {
		starts[i] = line
		line += s.NewLineCount()
	}
	return starts
}

func fileLabel(file *model.File) string {
	if file.OldPath != "" && file.OldPath != file.Path {
		return fmt.Sprintf("%s (from %s)", file.Path, file.OldPath)
	}
	return file.Path
}

func changedLabel(s model.Section, start int) string {
	var added, removed int
	for _, l := range s.Changed {
		if l.ChangeType == model.Added {
			added++
		} else {
			removed++
		}
	}
	return fmt.Sprintf("line %d: -%d +%d", start+1, removed, added)
}

func lineLabel(l model.SectionChangedLine) string {
	marker := "+"
	if l.ChangeType == model.Removed {
		marker = "-"
	}
	return marker + " " + trimEOL(l.Line)
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}

func indicator(state model.Tristate) string {
	switch state {
	case model.Checked:
		return "[x]"
	case model.Partial:
		return "[~]"
	default:
		return "[ ]"
	}
}

// previewIndices is the set of sections shown in the preview for r.
func previewIndices(commit *model.Commit, r row) []int {
	file := &commit.Files[r.scope.File]
	switch r.kind {
	case rowContainer:
		return file.Containers[r.scope.Container].AllSectionIndices()
	case rowMember:
		return file.Containers[r.scope.Container].Members[r.scope.Member].SectionIndices
	case rowSection, rowLine:
		return []int{r.scope.Section}
	default:
		return allIndices(file)
	}
}

// renderPreview shows the changed lines of the sections under r with their
// selection state.
func renderPreview(commit *model.Commit, r row) string {
	file := &commit.Files[r.scope.File]
	var b strings.Builder
	for _, si := range previewIndices(commit, r) {
		s := file.Sections[si]
		switch s.Kind {
		case model.SectionChanged:
			for li, l := range s.Changed {
				mark := " "
				if l.Checked {
					mark = "*"
				}
				text := lineLabel(l)
				if r.kind == rowLine && li == r.scope.Line {
					text = cursorStyle.Render(text)
				} else if l.ChangeType == model.Added {
					text = addedStyle.Render(text)
				} else {
					text = removedStyle.Render(text)
				}
				fmt.Fprintf(&b, "%s %s\n", mark, text)
			}
		case model.SectionFileMode:
			fmt.Fprintf(&b, "  mode %s -> %s\n", s.OldMode, s.NewMode)
		case model.SectionBinary:
			fmt.Fprintf(&b, "  binary %s -> %s\n", s.OldDescription, s.NewDescription)
		}
	}
	if b.Len() == 0 {
		return faintStyle.Render("No changes.")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
