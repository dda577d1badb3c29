package nvim

import (
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single newline", "\n", nil},
		{"terminated", "a\nb\n", []string{"a", "b"}},
		{"unterminated", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, l := range bufferLines(tt.content) {
				got = append(got, string(l))
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProcessSequentially(t *testing.T) {
	var progress []int
	ok, failed := processSequentially([]string{"a", "b", "c"}, func(s string) (string, bool) {
		return s, s != "b"
	}, func(n int) { progress = append(progress, n) })

	require.Equal(t, []string{"a", "c"}, ok)
	require.Equal(t, []string{"b"}, failed)
	require.Equal(t, []int{1, 2, 3}, progress)

	ok, failed = processSequentially[error]([]error{errors.New("x")}, func(error) (string, bool) { return "x", true }, nil)
	require.Equal(t, []string{"x"}, ok)
	require.Empty(t, failed)
}

func TestLoadBuffersEscapesPath(t *testing.T) {
	if _, err := exec.LookPath("nvim"); err != nil {
		t.Skip("nvim not installed")
	}
	t.Setenv("NVIM_LISTEN_ADDRESS", "")

	m, err := New()
	require.NoError(t, err)
	defer m.Close()

	path := filepath.Join(t.TempDir(), "100% done #1.txt")
	updated, failed := m.LoadBuffers([]Buffer{{Path: path, Content: "a\nb\n"}}, nil)
	require.Equal(t, []string{path}, updated)
	require.Empty(t, failed)

	buf, err := m.nvim.CurrentBuffer()
	require.NoError(t, err)
	name, err := m.nvim.BufferName(buf)
	require.NoError(t, err)
	require.Equal(t, filepath.Base(path), filepath.Base(name))

	lines, err := m.nvim.BufferLines(buf, 0, -1, true)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, lines)
}
