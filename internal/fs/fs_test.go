package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokinpui/pick.go/model"
)

func TestReadTextMissingFileIsAbsent(t *testing.T) {
	content, mode, err := ReadText(filepath.Join(t.TempDir(), "nope.go"))
	require.NoError(t, err)
	require.Empty(t, content)
	require.Equal(t, model.FileModeAbsent, mode)
}

func TestWriteAndReadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.sh")
	require.NoError(t, WriteFile(path, "echo hi\n", model.FileModeExec))

	content, mode, err := ReadText(path)
	require.NoError(t, err)
	require.Equal(t, "echo hi\n", content)
	require.Equal(t, model.FileModeExec, mode)

	hash, err := GetFileSHA256(path)
	require.NoError(t, err)
	require.Equal(t, HashString("echo hi\n"), hash)

	require.NoError(t, WriteFile(path, "echo hi\n", model.FileModeDefault))
	_, mode, err = ReadText(path)
	require.NoError(t, err)
	require.Equal(t, model.FileModeDefault, mode)
}

func TestReadTextRejectsDirectories(t *testing.T) {
	_, _, err := ReadText(t.TempDir())
	require.Error(t, err)
}

func TestPathResolver(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	r := NewPathResolver([]string{dir})
	require.Equal(t, existing, r.ResolveExisting("a.txt"))
	require.Empty(t, r.ResolveExisting("b.txt"))
	require.Equal(t, filepath.Join(dir, "b.txt"), r.Resolve("b.txt"))
	require.Equal(t, existing, r.Resolve(existing))
}

func TestGetFileActionsAndDirs(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))
	fresh := filepath.Join(dir, "sub", "b.txt")

	actions, dirs := GetFileActionsAndDirs([]string{existing, fresh})
	require.Equal(t, "modify", actions[existing])
	require.Equal(t, "create", actions[fresh])
	require.Contains(t, dirs, filepath.Join(dir, "sub"))

	require.True(t, ConfirmAndCreateDirs(dirs, false))
	empty, err := IsEmpty(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	require.True(t, empty)
}
