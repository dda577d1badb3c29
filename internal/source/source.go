package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/pick.go/internal/fs"
	"github.com/sokinpui/pick.go/internal/ui"
	"github.com/sokinpui/pick.go/model"
)

// StdinPath stands for "read the new version from stdin or the clipboard".
const StdinPath = "-"

// Pair is the old and new version of one file.
type Pair struct {
	// Path names the file for display and language detection.
	Path string
	// Target is where the selected result is written back with --write.
	Target  string
	Old     string
	New     string
	OldMode model.FileMode
	NewMode model.FileMode
}

// Git runs a git command and returns its stdout.
type Git func(args ...string) ([]byte, error)

func runGit(args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.Command("git", args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// SourceProvider loads the file versions to compare.
type SourceProvider struct {
	resolver *fs.PathResolver
	git      Git
	stdin    io.Reader
	piped    func() bool
	paste    func() (string, error)
}

// New creates a new SourceProvider.
func New(resolver *fs.PathResolver) *SourceProvider {
	return &SourceProvider{
		resolver: resolver,
		git:      runGit,
		stdin:    os.Stdin,
		piped:    stdinIsPiped,
		paste:    clipboard.ReadAll,
	}
}

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// FilePair compares two files on disk. newPath may be StdinPath, in which
// case the new version is read from stdin when piped, or from the clipboard.
func (sp *SourceProvider) FilePair(oldPath, newPath string) (Pair, error) {
	oldAbs := sp.resolver.Resolve(oldPath)
	oldText, oldMode, err := fs.ReadText(oldAbs)
	if err != nil {
		return Pair{}, err
	}

	if newPath == StdinPath {
		newText, err := sp.GetContent()
		if err != nil {
			return Pair{}, err
		}
		newMode := oldMode
		if newMode == model.FileModeAbsent {
			newMode = model.FileModeDefault
		}
		return Pair{Path: oldPath, Target: oldAbs, Old: oldText, New: newText, OldMode: oldMode, NewMode: newMode}, nil
	}

	newAbs := sp.resolver.Resolve(newPath)
	newText, newMode, err := fs.ReadText(newAbs)
	if err != nil {
		return Pair{}, err
	}
	if oldMode == model.FileModeAbsent && newMode == model.FileModeAbsent {
		return Pair{}, fmt.Errorf("neither %s nor %s exists", oldPath, newPath)
	}
	return Pair{Path: newPath, Target: newAbs, Old: oldText, New: newText, OldMode: oldMode, NewMode: newMode}, nil
}

// GitPairs compares each path at ref with its working tree version. With no
// paths, every file that differs from ref is loaded.
func (sp *SourceProvider) GitPairs(ref string, paths []string) ([]Pair, error) {
	if len(paths) == 0 {
		out, err := sp.git("diff", "--name-only", "--relative", ref, "--")
		if err != nil {
			return nil, fmt.Errorf("failed to list changed files: %w", err)
		}
		for _, line := range strings.Split(string(out), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				paths = append(paths, line)
			}
		}
	}

	pairs := make([]Pair, 0, len(paths))
	for _, path := range paths {
		pair, err := sp.gitPair(ref, path)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (sp *SourceProvider) gitPair(ref, path string) (Pair, error) {
	target := sp.resolver.Resolve(path)
	newText, newMode, err := fs.ReadText(target)
	if err != nil {
		return Pair{}, err
	}

	rel := "./" + filepath.ToSlash(path)
	oldMode, err := sp.gitMode(ref, rel)
	if err != nil {
		return Pair{}, err
	}
	var oldText string
	if oldMode != model.FileModeAbsent {
		out, err := sp.git("show", ref+":"+rel)
		if err != nil {
			return Pair{}, fmt.Errorf("failed to read %s at %s: %w", path, ref, err)
		}
		oldText = string(out)
	}
	if oldMode == model.FileModeAbsent && newMode == model.FileModeAbsent {
		return Pair{}, fmt.Errorf("%s exists neither at %s nor in the working tree", path, ref)
	}
	return Pair{Path: path, Target: target, Old: oldText, New: newText, OldMode: oldMode, NewMode: newMode}, nil
}

// gitMode reads the mode of path at ref from `git ls-tree`, whose lines look
// like "100644 blob <sha>\t<path>".
func (sp *SourceProvider) gitMode(ref, path string) (model.FileMode, error) {
	out, err := sp.git("ls-tree", ref, "--", path)
	if err != nil {
		return model.FileModeAbsent, fmt.Errorf("failed to look up %s at %s: %w", path, ref, err)
	}
	line := strings.TrimSpace(string(out))
	if line == "" {
		return model.FileModeAbsent, nil
	}
	mode, _, _ := strings.Cut(line, " ")
	m, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return model.FileModeAbsent, fmt.Errorf("unexpected ls-tree output %q: %w", line, err)
	}
	return model.FileMode(m), nil
}

// GetContent retrieves content from stdin (if piped) or the clipboard.
func (sp *SourceProvider) GetContent() (string, error) {
	if sp.piped() {
		ui.Debug("reading new version from stdin")
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	ui.Debug("reading new version from clipboard")
	content, err := sp.paste()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		ui.Warning("Clipboard is empty.")
	}
	return content, nil
}
