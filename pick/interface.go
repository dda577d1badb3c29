package pick

import (
	"context"
	"time"

	"github.com/sokinpui/pick.go/internal/differ"
	"github.com/sokinpui/pick.go/internal/selection"
	"github.com/sokinpui/pick.go/internal/semantic"
	"github.com/sokinpui/pick.go/model"
)

// Config for using pick as a library.
type Config struct {
	// Skip semantic grouping.
	Flat bool
	// Deadline for parsing the new version. Zero uses the default.
	ParseTimeout time.Duration
	// Start with every change selected.
	SelectAll bool
	// Mode of the old and new version. Zero values mean a regular file on
	// both sides.
	OldMode model.FileMode
	NewMode model.FileMode
}

// Scope addresses part of a commit for Select.
type Scope = selection.Scope

// Scope constructors.
var (
	CommitScope    = selection.Commit
	FileScope      = selection.File
	SectionScope   = selection.Section
	LineScope      = selection.Line
	ContainerScope = selection.Container
	MemberScope    = selection.Member
)

// Analyze diffs two versions of a file and, unless config.Flat is set,
// groups the changes into the declarations they touch.
func Analyze(path, oldText, newText string, config Config) model.File {
	oldMode, newMode := config.OldMode, config.NewMode
	if oldMode == model.FileModeAbsent && newMode == model.FileModeAbsent {
		oldMode, newMode = model.FileModeDefault, model.FileModeDefault
	}

	file := differ.BuildFile(path, oldText, newText)
	differ.BuildModeChange(&file, oldMode, newMode)
	if !config.Flat {
		builder := semantic.NewBuilder()
		if config.ParseTimeout > 0 {
			builder.Timeout = config.ParseTimeout
		}
		file = builder.Build(context.Background(), file, oldText, newText)
	}

	commit := model.Commit{Files: []model.File{file}}
	selection.SetAll(&commit, config.SelectAll)
	return commit.Files[0]
}

// Select toggles scope and returns its new state.
func Select(commit *model.Commit, scope Scope) model.Tristate {
	selection.Toggle(commit, scope)
	return selection.State(commit, scope)
}

// Contents returns the file that results from the current selection.
func Contents(file model.File) model.SelectedChanges {
	return selection.SelectedContents(file)
}
