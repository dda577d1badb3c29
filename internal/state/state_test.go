package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokinpui/pick.go/internal/fs"
	"github.com/sokinpui/pick.go/model"
)

func record(t *testing.T, m *Manager, path, before, after string) Operation {
	t.Helper()
	op := Operation{Path: path, Action: "modify"}
	var err error
	op.Before, err = m.Store(before, model.FileModeDefault)
	require.NoError(t, err)
	op.After, err = m.Store(after, model.FileModeDefault)
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile(path, after, model.FileModeDefault))
	return op
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRevertAndRedo(t *testing.T) {
	root := t.TempDir()
	m, err := NewAt(root)
	require.NoError(t, err)

	path := filepath.Join(root, "main.go")
	op := record(t, m, path, "old\n", "new\n")
	require.NoError(t, m.Write([]Operation{op}))

	ops, err := m.GetOperationsToUndo()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.NoError(t, m.Revert(ops[0]))
	require.Equal(t, "old\n", read(t, path))

	ops, err = m.GetOperationsToRedo()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.NoError(t, m.Reapply(ops[0]))
	require.Equal(t, "new\n", read(t, path))

	ops, err = m.GetOperationsToRedo()
	require.NoError(t, err)
	require.Empty(t, ops)
}

func TestHistoryPersists(t *testing.T) {
	root := t.TempDir()
	m, err := NewAt(root)
	require.NoError(t, err)

	path := filepath.Join(root, "a.txt")
	op := record(t, m, path, "1\n", "2\n")
	created := Operation{Path: filepath.Join(root, "b.txt"), Action: "create"}
	created.After, err = m.Store("b\n", model.FileModeExec)
	require.NoError(t, err)
	require.NoError(t, m.Write([]Operation{op, created}))

	reloaded, err := NewAt(root)
	require.NoError(t, err)
	ops, err := reloaded.GetOperationsToUndo()
	require.NoError(t, err)
	require.Equal(t, []Operation{op, created}, ops)
	require.True(t, ops[1].Before.Absent())
	require.Equal(t, model.FileModeExec, ops[1].After.Mode)
}

func TestRevertRefusesChangedFile(t *testing.T) {
	root := t.TempDir()
	m, err := NewAt(root)
	require.NoError(t, err)

	path := filepath.Join(root, "a.txt")
	op := record(t, m, path, "1\n", "2\n")
	require.NoError(t, os.WriteFile(path, []byte("edited\n"), 0o644))

	require.ErrorIs(t, m.Revert(op), ErrConflict)
	require.Equal(t, "edited\n", read(t, path))
}

func TestRevertCreateRemovesFile(t *testing.T) {
	root := t.TempDir()
	m, err := NewAt(root)
	require.NoError(t, err)

	path := filepath.Join(root, "sub", "new.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	op := Operation{Path: path, Action: "create"}
	op.After, err = m.Store("hello\n", model.FileModeDefault)
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile(path, "hello\n", model.FileModeDefault))

	require.NoError(t, m.Revert(op))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Dir(path))
	require.True(t, os.IsNotExist(err))

	require.NoError(t, m.Reapply(op))
	require.Equal(t, "hello\n", read(t, path))
}

func TestWriteDropsUndoneEntries(t *testing.T) {
	root := t.TempDir()
	m, err := NewAt(root)
	require.NoError(t, err)

	path := filepath.Join(root, "a.txt")
	require.NoError(t, m.Write([]Operation{record(t, m, path, "1\n", "2\n")}))
	_, err = m.GetOperationsToUndo()
	require.NoError(t, err)
	require.NoError(t, m.Write([]Operation{record(t, m, path, "2\n", "3\n")}))

	ops, err := m.GetOperationsToRedo()
	require.NoError(t, err)
	require.Empty(t, ops)
	require.Len(t, m.state.History, 1)
}
