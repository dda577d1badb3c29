package fs

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sokinpui/pick.go/internal/ui"
	"github.com/sokinpui/pick.go/model"
)

// PathResolver finds absolute paths for files.
type PathResolver struct {
	lookupDirs []string
}

// NewPathResolver creates a new PathResolver.
func NewPathResolver(lookupDirs []string) *PathResolver {
	if len(lookupDirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			panic(fmt.Sprintf("could not get current working directory: %v", err))
		}
		return &PathResolver{lookupDirs: []string{wd}}
	}

	absDirs := make([]string, 0, len(lookupDirs))
	for _, dir := range lookupDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			ui.Warning("Invalid lookup directory '%s', ignoring: %v", dir, err)
			continue
		}
		absDirs = append(absDirs, abs)
	}
	if len(absDirs) == 0 {
		return NewPathResolver(nil)
	}
	return &PathResolver{lookupDirs: absDirs}
}

// Resolve finds an absolute path, assuming a new file in the first lookup
// directory if it doesn't exist.
func (r *PathResolver) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if existing := r.ResolveExisting(path); existing != "" {
		return existing
	}
	return filepath.Join(r.lookupDirs[0], path)
}

// ResolveExisting finds an absolute path only if the file exists.
func (r *PathResolver) ResolveExisting(path string) string {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	for _, dir := range r.lookupDirs {
		absPath := filepath.Join(dir, path)
		if _, err := os.Stat(absPath); err == nil {
			return absPath
		}
	}
	return ""
}

// Relative returns path relative to the working directory when possible.
func Relative(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// ReadText reads a file and its mode. A missing file is reported with
// FileModeAbsent and no error.
func ReadText(path string) (string, model.FileMode, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", model.FileModeAbsent, nil
	}
	if err != nil {
		return "", model.FileModeAbsent, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", model.FileModeAbsent, fmt.Errorf("%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", model.FileModeAbsent, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), ModeOf(info.Mode()), nil
}

// ModeOf maps a permission set onto the modes tracked in diffs.
func ModeOf(perm os.FileMode) model.FileMode {
	if perm&0o111 != 0 {
		return model.FileModeExec
	}
	return model.FileModeDefault
}

// Perm is the permission set used to write a file of the given mode.
func Perm(mode model.FileMode) os.FileMode {
	if mode == model.FileModeExec {
		return 0o755
	}
	return 0o644
}

// WriteFile writes content and applies the permissions of mode.
func WriteFile(path, content string, mode model.FileMode) error {
	perm := Perm(mode)
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	return nil
}

// GetFileSHA256 returns the hex SHA256 of a file's content.
func GetFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashString returns the hex SHA256 of content.
func HashString(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// IsEmpty reports whether a directory has no entries.
func IsEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// GetFileActionsAndDirs determines which files are new vs. modified and
// which directories need to be created.
func GetFileActionsAndDirs(targetPaths []string) (map[string]string, map[string]struct{}) {
	fileActions := make(map[string]string)
	dirsToCreate := make(map[string]struct{})

	for _, path := range targetPaths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fileActions[path] = "create"
			dir := filepath.Dir(path)
			if dir != "." && dir != "/" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					dirsToCreate[dir] = struct{}{}
				}
			}
		} else {
			fileActions[path] = "modify"
		}
	}
	return fileActions, dirsToCreate
}

// ConfirmAndCreateDirs creates dirs, asking on stdin first when confirm is
// set. It returns false when the user declines or creation fails.
func ConfirmAndCreateDirs(dirs map[string]struct{}, confirm bool) bool {
	if len(dirs) == 0 {
		return true
	}

	sortedDirs := make([]string, 0, len(dirs))
	for dir := range dirs {
		sortedDirs = append(sortedDirs, dir)
	}
	sort.Strings(sortedDirs)

	if confirm {
		ui.Info("\nThe following directories need to be created:")
		for _, dir := range sortedDirs {
			ui.Path("- %s", dir)
		}

		fmt.Fprint(os.Stderr, ui.Prompt("Do you want to create all these directories? (y/N): "))
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		if strings.TrimSpace(strings.ToLower(response)) != "y" {
			ui.Warning("Directory creation declined.")
			return false
		}
	}

	for _, dir := range sortedDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			ui.Error("Error creating directory '%s': %v", dir, err)
			return false
		}
		ui.Debug("created directory %s", dir)
	}
	return true
}
