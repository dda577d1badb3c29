package model

import "fmt"

// Commit is the set of files presented together in one selection session.
type Commit struct {
	Files []File
}

// FileMode is a Unix file mode. The zero value means the file is absent on
// that side of the change (created or deleted).
type FileMode uint32

const (
	FileModeAbsent  FileMode = 0
	FileModeDefault FileMode = 0o100644
	FileModeExec    FileMode = 0o100755
)

func (m FileMode) String() string {
	if m == FileModeAbsent {
		return "absent"
	}
	return fmt.Sprintf("%o", uint32(m))
}

// File is one file's diff as an ordered list of sections.
type File struct {
	// OldPath is set when the file was renamed.
	OldPath string
	Path    string
	// FileMode is the mode the file had before the change.
	FileMode FileMode
	Sections []Section
	// Containers is the AST-aware view of Sections. Nil means no semantic
	// grouping is available and callers fall back to flat section navigation.
	Containers []SemanticContainer
}

// SectionKind tags the variant held by a Section.
type SectionKind int

const (
	SectionUnchanged SectionKind = iota
	SectionChanged
	SectionFileMode
	SectionBinary
)

func (k SectionKind) String() string {
	switch k {
	case SectionUnchanged:
		return "unchanged"
	case SectionChanged:
		return "changed"
	case SectionFileMode:
		return "file-mode"
	case SectionBinary:
		return "binary"
	default:
		return fmt.Sprintf("SectionKind(%d)", int(k))
	}
}

// Section is a contiguous diff fragment. Only the fields matching Kind are
// meaningful.
type Section struct {
	Kind SectionKind

	// Lines holds the context lines of an Unchanged section, each with its
	// line terminator.
	Lines []string

	// Changed holds the lines of a Changed section: removed lines first,
	// then added lines.
	Changed []SectionChangedLine

	// OldMode and NewMode describe a FileMode section.
	OldMode FileMode
	NewMode FileMode

	// OldDescription and NewDescription describe a Binary section.
	OldDescription string
	NewDescription string

	// Checked is the selection bit of a FileMode or Binary section. These
	// sections behave as a single opaque leaf.
	Checked bool
}

// ChangeType tells whether a changed line was added or removed.
type ChangeType int

const (
	Added ChangeType = iota
	Removed
)

func (c ChangeType) String() string {
	if c == Removed {
		return "removed"
	}
	return "added"
}

// SectionChangedLine is a single added or removed line.
type SectionChangedLine struct {
	ChangeType ChangeType
	Line       string
	Checked    bool
}

// NewUnchanged returns an Unchanged section holding lines.
func NewUnchanged(lines ...string) Section {
	return Section{Kind: SectionUnchanged, Lines: lines}
}

// NewChanged returns a Changed section holding lines.
func NewChanged(lines ...SectionChangedLine) Section {
	return Section{Kind: SectionChanged, Changed: lines}
}

// NewFileModeChange returns a FileMode section.
func NewFileModeChange(oldMode, newMode FileMode) Section {
	return Section{Kind: SectionFileMode, OldMode: oldMode, NewMode: newMode}
}

// NewBinary returns a Binary section.
func NewBinary(oldDescription, newDescription string) Section {
	return Section{Kind: SectionBinary, OldDescription: oldDescription, NewDescription: newDescription}
}

// IsEditable reports whether the section holds at least one added or removed
// line.
func (s Section) IsEditable() bool {
	return s.Kind == SectionChanged && len(s.Changed) > 0
}

// NewLineCount is the number of lines the section occupies in the new file.
func (s Section) NewLineCount() int {
	switch s.Kind {
	case SectionUnchanged:
		return len(s.Lines)
	case SectionChanged:
		n := 0
		for _, l := range s.Changed {
			if l.ChangeType == Added {
				n++
			}
		}
		return n
	default:
		return 0
	}
}

// Tristate is the aggregate selection value of a scope.
type Tristate int

const (
	Unchecked Tristate = iota
	Checked
	Partial
)

func (t Tristate) String() string {
	switch t {
	case Checked:
		return "checked"
	case Partial:
		return "partial"
	default:
		return "unchecked"
	}
}

// BinaryChoice records which side of a binary change was selected.
type BinaryChoice int

const (
	BinaryNone BinaryChoice = iota
	BinaryOld
	BinaryNew
)

// SelectedChanges is the result of applying a file's selection.
type SelectedChanges struct {
	Contents string
	Mode     FileMode
	Binary   BinaryChoice
}

// Summary holds the results of an operation for display.
type Summary struct {
	Written  []string
	Skipped  []string
	Failed   []string
	Message  string
	Contents map[string]string
}
