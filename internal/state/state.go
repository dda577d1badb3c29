package state

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sokinpui/pick.go/internal/fs"
	"github.com/sokinpui/pick.go/model"
)

const (
	stateDirName  = ".pick"
	stateFileName = "state.pick"
	BlobDir       = "blobs"
	absentMarker  = "-"
)

// ErrConflict means a file changed since pick last wrote it.
var ErrConflict = errors.New("file changed since it was written")

// Side is a file's content hash and mode at one point in time. An empty
// Hash means the file did not exist.
type Side struct {
	Hash string
	Mode model.FileMode
}

// Absent reports whether the file did not exist.
func (s Side) Absent() bool {
	return s.Hash == ""
}

func (s Side) String() string {
	if s.Absent() {
		return absentMarker
	}
	return fmt.Sprintf("%s %o", s.Hash, uint32(s.Mode))
}

func parseSide(line string) (Side, error) {
	line = strings.TrimSpace(line)
	if line == absentMarker {
		return Side{}, nil
	}
	hash, mode, ok := strings.Cut(line, " ")
	if !ok {
		return Side{}, fmt.Errorf("malformed file record %q", line)
	}
	m, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return Side{}, fmt.Errorf("malformed file mode %q: %w", mode, err)
	}
	return Side{Hash: hash, Mode: model.FileMode(m)}, nil
}

// Operation is a single file write made by pick.
type Operation struct {
	Path   string
	Action string // create, modify or delete
	Before Side
	After  Side
}

// HistoryEntry represents one complete run of the tool.
type HistoryEntry struct {
	Timestamp  int64
	Operations []Operation
}

// State represents the entire state file.
type State struct {
	History      []HistoryEntry
	CurrentIndex int
}

// Manager handles the lifecycle of the state file and the content blobs
// needed to move files back and forth through history.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
}

// findGitRoot finds the root of the git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// New creates a state manager rooted at the enclosing git repository, or the
// working directory outside of one.
func New() (*Manager, error) {
	rootDir, err := findGitRoot()
	if err != nil {
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
	}
	return NewAt(rootDir)
}

// NewAt creates a state manager keeping its files under rootDir.
func NewAt(rootDir string) (*Manager, error) {
	stateDir := filepath.Join(rootDir, stateDirName)
	if err := os.MkdirAll(filepath.Join(stateDir, BlobDir), 0o755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		m.state = &State{CurrentIndex: -1}
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{CurrentIndex: -1}
			return nil
		}
		return err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")
	if len(blocks) == 0 || strings.TrimSpace(blocks[0]) == "" {
		m.state = &State{CurrentIndex: -1}
		return nil
	}

	index, err := strconv.Atoi(strings.TrimSpace(blocks[0]))
	if err != nil {
		return fmt.Errorf("invalid state file: could not parse current index: %w", err)
	}
	st := &State{CurrentIndex: index}

	for _, block := range blocks[1:] {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")

		ts, err := strconv.ParseInt(lines[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid state file: could not parse timestamp from '%s': %w", lines[0], err)
		}
		entry := HistoryEntry{Timestamp: ts}

		opLines := lines[1:]
		if len(opLines)%4 != 0 {
			return fmt.Errorf("invalid state file: incomplete operation record")
		}
		for i := 0; i < len(opLines); i += 4 {
			before, err := parseSide(opLines[i+2])
			if err != nil {
				return fmt.Errorf("invalid state file: %w", err)
			}
			after, err := parseSide(opLines[i+3])
			if err != nil {
				return fmt.Errorf("invalid state file: %w", err)
			}
			entry.Operations = append(entry.Operations, Operation{
				Action: opLines[i],
				Path:   opLines[i+1],
				Before: before,
				After:  after,
			})
		}
		st.History = append(st.History, entry)
	}

	if st.CurrentIndex >= len(st.History) {
		st.CurrentIndex = len(st.History) - 1
	}
	m.state = st
	return nil
}

func (m *Manager) save() error {
	blocks := []string{strconv.Itoa(m.state.CurrentIndex)}

	for _, entry := range m.state.History {
		lines := []string{strconv.FormatInt(entry.Timestamp, 10)}
		for _, op := range entry.Operations {
			lines = append(lines, op.Action, op.Path, op.Before.String(), op.After.String())
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	content := strings.Join(blocks, "\n\n") + "\n"
	if err := os.WriteFile(m.statePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Store saves content as a blob and returns the side describing it.
func (m *Manager) Store(content string, mode model.FileMode) (Side, error) {
	hash := fs.HashString(content)
	path := m.blobPath(hash)
	if _, err := os.Stat(path); err == nil {
		return Side{Hash: hash, Mode: mode}, nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return Side{}, fmt.Errorf("failed to store blob: %w", err)
	}
	return Side{Hash: hash, Mode: mode}, nil
}

func (m *Manager) blobPath(hash string) string {
	return filepath.Join(m.StateDir, BlobDir, hash)
}

// Write adds a new set of operations to the history, dropping any undone
// entries after the current one.
func (m *Manager) Write(operations []Operation) error {
	if len(operations) == 0 {
		return nil
	}
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}

	sorted := append([]Operation(nil), operations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	m.state.History = append(m.state.History, HistoryEntry{
		Timestamp:  time.Now().UTC().Unix(),
		Operations: sorted,
	})
	m.state.CurrentIndex++
	return m.save()
}

// GetOperationsToUndo gets the last operations and moves the history pointer.
func (m *Manager) GetOperationsToUndo() ([]Operation, error) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	ops := m.state.History[m.state.CurrentIndex].Operations
	m.state.CurrentIndex--
	return ops, m.save()
}

// GetOperationsToRedo gets the next operations and moves the history pointer.
func (m *Manager) GetOperationsToRedo() ([]Operation, error) {
	nextIndex := m.state.CurrentIndex + 1
	if nextIndex >= len(m.state.History) {
		return nil, nil
	}
	m.state.CurrentIndex = nextIndex
	return m.state.History[nextIndex].Operations, m.save()
}

// Revert puts op.Path back to its state before op.
func (m *Manager) Revert(op Operation) error {
	return m.move(op.Path, op.After, op.Before)
}

// Reapply redoes op on op.Path.
func (m *Manager) Reapply(op Operation) error {
	return m.move(op.Path, op.Before, op.After)
}

// move turns path from side from into side to. The file must still match
// from.
func (m *Manager) move(path string, from, to Side) error {
	current, err := fs.GetFileSHA256(path)
	switch {
	case os.IsNotExist(err):
		if !from.Absent() {
			return fmt.Errorf("%w: %s no longer exists", ErrConflict, path)
		}
	case err != nil:
		return fmt.Errorf("failed to hash %s: %w", path, err)
	case from.Absent() || current != from.Hash:
		return fmt.Errorf("%w: %s", ErrConflict, path)
	}

	if to.Absent() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		parentDir := filepath.Dir(path)
		if isEmpty, _ := fs.IsEmpty(parentDir); isEmpty {
			os.Remove(parentDir)
		}
		return nil
	}

	data, err := os.ReadFile(m.blobPath(to.Hash))
	if err != nil {
		return fmt.Errorf("missing backup for %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return fs.WriteFile(path, string(data), to.Mode)
}
