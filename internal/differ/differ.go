package differ

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/sokinpui/pick.go/model"
)

// SplitLines splits text into lines, each keeping its "\n" terminator. The
// last line has no terminator when text does not end with a newline.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// IsBinary reports whether content looks like binary data.
func IsBinary(content string) bool {
	return strings.IndexByte(content, 0) >= 0
}

// BuildFile diffs oldText against newText and returns the file as an ordered
// list of sections. Runs of equal lines become Unchanged sections; each
// replaced, deleted or inserted run becomes one Changed section with its
// removed lines before its added lines. All changed lines start unchecked.
func BuildFile(path, oldText, newText string) model.File {
	file := model.File{Path: path, FileMode: model.FileModeDefault}
	if IsBinary(oldText) || IsBinary(newText) {
		if oldText != newText {
			file.Sections = []model.Section{BuildBinary(oldText, newText)}
		}
		return file
	}
	file.Sections = BuildSections(SplitLines(oldText), SplitLines(newText))
	return file
}

// BuildSections diffs two line slices.
func BuildSections(oldLines, newLines []string) []model.Section {
	matcher := difflib.NewMatcherWithJunk(oldLines, newLines, false, nil)

	var sections []model.Section
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			lines := make([]string, op.I2-op.I1)
			copy(lines, oldLines[op.I1:op.I2])
			sections = append(sections, model.NewUnchanged(lines...))
		case 'r', 'd', 'i':
			changed := make([]model.SectionChangedLine, 0, (op.I2-op.I1)+(op.J2-op.J1))
			for _, line := range oldLines[op.I1:op.I2] {
				changed = append(changed, model.SectionChangedLine{ChangeType: model.Removed, Line: line})
			}
			for _, line := range newLines[op.J1:op.J2] {
				changed = append(changed, model.SectionChangedLine{ChangeType: model.Added, Line: line})
			}
			if len(changed) > 0 {
				sections = append(sections, model.NewChanged(changed...))
			}
		}
	}
	return sections
}

// BuildModeChange prepends a FileMode section to file when the modes differ.
func BuildModeChange(file *model.File, oldMode, newMode model.FileMode) {
	file.FileMode = oldMode
	if oldMode == newMode {
		return
	}
	file.Sections = append([]model.Section{model.NewFileModeChange(oldMode, newMode)}, file.Sections...)
}

// BuildBinary returns a Binary section describing both sides.
func BuildBinary(oldContent, newContent string) model.Section {
	return model.NewBinary(describeBinary(oldContent), describeBinary(newContent))
}

func describeBinary(content string) string {
	if content == "" {
		return "(absent)"
	}
	return fmt.Sprintf("(binary, %d bytes)", len(content))
}

// Unified renders a unified diff between oldText and selected.
func Unified(path, oldText, selected string, context int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        SplitLines(oldText),
		B:        SplitLines(selected),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
	}
	var buf bytes.Buffer
	if err := difflib.WriteUnifiedDiff(&buf, diff); err != nil {
		return "", fmt.Errorf("failed to render diff for %s: %w", path, err)
	}
	return buf.String(), nil
}
