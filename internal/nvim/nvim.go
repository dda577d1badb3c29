package nvim

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/neovim/go-client/nvim"

	"github.com/sokinpui/pick.go/internal/ui"
)

// Buffer is the selected content for one file.
type Buffer struct {
	Path    string
	Content string
}

// Manager handles the connection and interaction with a Neovim instance.
type Manager struct {
	nvim          *nvim.Nvim
	isSelfStarted bool
	cmd           *exec.Cmd
	socketPath    string
}

// New creates a new Neovim manager, connecting to an existing instance
// or starting a new headless one.
func New() (*Manager, error) {
	if addr := os.Getenv("NVIM_LISTEN_ADDRESS"); addr != "" {
		v, err := nvim.Dial(addr)
		if err == nil {
			return &Manager{nvim: v}, nil
		}
		ui.Debug("could not reach nvim at %s: %v", addr, err)
	}

	tmpDir, err := os.MkdirTemp("", "pick-nvim-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir for nvim: %w", err)
	}
	socketPath := filepath.Join(tmpDir, "nvim.sock")

	cmd := exec.Command("nvim", "--headless", "--clean", "--listen", socketPath)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to start headless nvim: %w. Is 'nvim' in your PATH?", err)
	}

	for i := 0; i < 20; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	v, err := nvim.Dial(socketPath)
	if err != nil {
		cmd.Process.Kill()
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to connect to headless nvim: %w", err)
	}

	return &Manager{
		nvim:          v,
		isSelfStarted: true,
		cmd:           cmd,
		socketPath:    socketPath,
	}, nil
}

// SelfStarted reports whether the instance was started by pick. Buffers
// loaded into such an instance are gone once it is closed.
func (m *Manager) SelfStarted() bool {
	return m.isSelfStarted
}

// Close disconnects from Neovim and cleans up if it was self-started.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
	if m.isSelfStarted && m.cmd != nil && m.cmd.Process != nil {
		if err := m.cmd.Process.Kill(); err == nil {
			m.cmd.Wait()
			os.RemoveAll(filepath.Dir(m.socketPath))
		}
	}
}

// processSequentially is a generic helper function to run a set of jobs sequentially.
func processSequentially[T any](
	items []T,
	processFn func(item T) (path string, success bool),
	progressCb func(int),
) (succeeded, failed []string) {
	for i, item := range items {
		path, success := processFn(item)
		if success {
			succeeded = append(succeeded, path)
		} else {
			failed = append(failed, path)
		}
		if progressCb != nil {
			progressCb(i + 1)
		}
	}
	return succeeded, failed
}

// LoadBuffers replaces the content of each file's buffer without writing it
// to disk, leaving the user to review and save.
func (m *Manager) LoadBuffers(buffers []Buffer, progressCb func(int)) (updated, failed []string) {
	processFn := func(buf Buffer) (string, bool) {
		if err := m.updateBuffer(buf.Path, bufferLines(buf.Content)); err != nil {
			ui.Debug("failed to load %s into nvim: %v", buf.Path, err)
			return buf.Path, false
		}
		return buf.Path, true
	}
	return processSequentially(buffers, processFn, progressCb)
}

// bufferLines splits content into buffer lines. Neovim buffers carry no
// line terminators and no trailing empty line for a final newline.
func bufferLines(content string) [][]byte {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return [][]byte{}
	}
	parts := strings.Split(content, "\n")
	lines := make([][]byte, len(parts))
	for i, s := range parts {
		lines[i] = []byte(strings.TrimSuffix(s, "\r"))
	}
	return lines
}

func (m *Manager) updateBuffer(filePath string, lines [][]byte) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}

	var escaped string
	if err := m.nvim.Call("fnameescape", &escaped, absPath); err != nil {
		return fmt.Errorf("failed to escape %s: %w", absPath, err)
	}

	b := m.nvim.NewBatch()
	b.Command("edit " + escaped)
	b.SetBufferLines(0, 0, -1, true, lines)
	return b.Execute()
}
