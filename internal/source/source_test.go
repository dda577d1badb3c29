package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokinpui/pick.go/internal/fs"
	"github.com/sokinpui/pick.go/model"
)

type fakeGit map[string]string

func (g fakeGit) run(args ...string) ([]byte, error) {
	out, ok := g[strings.Join(args, " ")]
	if !ok {
		return nil, errors.New("unexpected git call: " + strings.Join(args, " "))
	}
	return []byte(out), nil
}

func newProvider(dir string) *SourceProvider {
	sp := New(fs.NewPathResolver([]string{dir}))
	sp.piped = func() bool { return false }
	sp.paste = func() (string, error) { return "", errors.New("no clipboard in tests") }
	return sp
}

func TestFilePair(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rs"), []byte("fn a() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rs"), []byte("fn b() {}\n"), 0o755))

	pair, err := newProvider(dir).FilePair("a.rs", "b.rs")
	require.NoError(t, err)
	require.Equal(t, "b.rs", pair.Path)
	require.Equal(t, "fn a() {}\n", pair.Old)
	require.Equal(t, "fn b() {}\n", pair.New)
	require.Equal(t, model.FileModeDefault, pair.OldMode)
	require.Equal(t, model.FileModeExec, pair.NewMode)
}

func TestFilePairMissingBoth(t *testing.T) {
	_, err := newProvider(t.TempDir()).FilePair("a.rs", "b.rs")
	require.Error(t, err)
}

func TestFilePairFromStdin(t *testing.T) {
	dir := t.TempDir()
	sp := newProvider(dir)
	sp.piped = func() bool { return true }
	sp.stdin = strings.NewReader("new\n")

	pair, err := sp.FilePair("fresh.txt", StdinPath)
	require.NoError(t, err)
	require.Equal(t, "fresh.txt", pair.Path)
	require.Equal(t, filepath.Join(dir, "fresh.txt"), pair.Target)
	require.Equal(t, model.FileModeAbsent, pair.OldMode)
	require.Equal(t, model.FileModeDefault, pair.NewMode)
	require.Equal(t, "new\n", pair.New)
}

func TestFilePairFromClipboard(t *testing.T) {
	dir := t.TempDir()
	sp := newProvider(dir)
	sp.paste = func() (string, error) { return "pasted\n", nil }

	pair, err := sp.FilePair("x.txt", StdinPath)
	require.NoError(t, err)
	require.Equal(t, "pasted\n", pair.New)
}

func TestGitPairs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.go"), []byte("package new\n"), 0o644))

	sp := newProvider(dir)
	sp.git = fakeGit{
		"diff --name-only --relative HEAD --": "main.go\nnew.go\n",
		"ls-tree HEAD -- ./main.go":           "100755 blob abc\tmain.go\n",
		"show HEAD:./main.go":                 "package old\n",
		"ls-tree HEAD -- ./new.go":            "",
	}.run

	pairs, err := sp.GitPairs("HEAD", nil)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	require.Equal(t, "main.go", pairs[0].Path)
	require.Equal(t, "package old\n", pairs[0].Old)
	require.Equal(t, "package main\n", pairs[0].New)
	require.Equal(t, model.FileModeExec, pairs[0].OldMode)
	require.Equal(t, model.FileModeDefault, pairs[0].NewMode)

	require.Equal(t, model.FileModeAbsent, pairs[1].OldMode)
	require.Empty(t, pairs[1].Old)
}

func TestGitPairsDeletedFile(t *testing.T) {
	sp := newProvider(t.TempDir())
	sp.git = fakeGit{
		"ls-tree HEAD -- ./gone.go": "100644 blob abc\tgone.go\n",
		"show HEAD:./gone.go":       "package gone\n",
	}.run

	pairs, err := sp.GitPairs("HEAD", []string{"gone.go"})
	require.NoError(t, err)
	require.Equal(t, model.FileModeAbsent, pairs[0].NewMode)
	require.Equal(t, "package gone\n", pairs[0].Old)
}

func TestGitPairsPropagatesErrors(t *testing.T) {
	sp := newProvider(t.TempDir())
	sp.git = fakeGit{}.run
	_, err := sp.GitPairs("HEAD", []string{"x.go"})
	require.Error(t, err)
}
