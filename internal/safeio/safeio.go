package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrOutsideRoot is returned when a path would resolve outside the root.
var ErrOutsideRoot = errors.New("safeio: path escapes root")

// SafeFS resolves every path relative to a fixed root and refuses anything
// that would land outside it, including through symlinks.
type SafeFS struct {
	absRoot string // absolute root with symlinks resolved
}

// NewSafeFS locks all future operations to the given root directory.
// The root path is resolved to an absolute, symlink-free directory.
func NewSafeFS(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: root is not a directory")
	}
	return &SafeFS{absRoot: abs}, nil
}

// Root returns the absolute root directory bound to this SafeFS.
func (s *SafeFS) Root() string {
	if s == nil {
		return ""
	}
	return s.absRoot
}

// Join resolves a relative, slash- or OS-separated path to an absolute path
// under the root. The path does not have to exist; its deepest existing
// ancestor is resolved through symlinks and must stay under the root.
func (s *SafeFS) Join(userPath string) (string, error) {
	if s == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	if userPath == "" {
		return "", errors.New("safeio: empty path")
	}
	clean := filepath.Clean(filepath.FromSlash(userPath))
	if clean == "." {
		return s.absRoot, nil
	}
	if filepath.IsAbs(clean) || (runtime.GOOS == "windows" && filepath.VolumeName(clean) != "") {
		return "", fmt.Errorf("%w: absolute path %q", ErrOutsideRoot, userPath)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, userPath)
	}

	joined := filepath.Join(s.absRoot, clean)
	resolved, err := resolveExisting(joined)
	if err != nil {
		return "", err
	}
	if !hasPathPrefix(resolved, s.absRoot) {
		return "", fmt.Errorf("%w (root=%s, path=%s)", ErrOutsideRoot, s.absRoot, resolved)
	}
	return joined, nil
}

// resolveExisting evaluates symlinks on the deepest existing ancestor of p and
// re-attaches the missing tail.
func resolveExisting(p string) (string, error) {
	var tail []string
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", err
		}
		tail = append(tail, filepath.Base(cur))
		cur = parent
	}
}

// SafeMkdirAll creates a directory and any missing parents under the root.
func (s *SafeFS) SafeMkdirAll(userPath string, perm fs.FileMode) error {
	p, err := s.Join(userPath)
	if err != nil {
		return err
	}
	return os.MkdirAll(p, perm)
}

// SafeWriteFile writes data to a file under the root, creating parent
// directories as needed. Existing files are truncated.
func (s *SafeFS) SafeWriteFile(userPath string, data []byte, perm fs.FileMode) error {
	p, err := s.Join(userPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, perm)
}

// SafeCreateFile writes data only when the file does not exist yet. It
// reports whether the file was created; an existing file is not an error.
func (s *SafeFS) SafeCreateFile(userPath string, data []byte, perm fs.FileMode) (bool, error) {
	p, err := s.Join(userPath)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return true, err
	}
	return true, f.Close()
}

// SafeReadFile reads a file relative to the root.
func (s *SafeFS) SafeReadFile(userPath string) ([]byte, error) {
	p, err := s.Join(userPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("safeio: path is a directory")
	}
	return os.ReadFile(p)
}

// SafeStat returns metadata for a file or directory under the root.
func (s *SafeFS) SafeStat(userPath string) (fs.FileInfo, error) {
	p, err := s.Join(userPath)
	if err != nil {
		return nil, err
	}
	return os.Stat(p)
}

// Exists reports whether userPath exists under the root.
func (s *SafeFS) Exists(userPath string) bool {
	_, err := s.SafeStat(userPath)
	return err == nil
}

// SafeRemove deletes a single file or empty directory under the root.
// A missing path is not an error.
func (s *SafeFS) SafeRemove(userPath string) error {
	p, err := s.Join(userPath)
	if err != nil {
		return err
	}
	if p == s.absRoot {
		return errors.New("safeio: refusing to remove root")
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		root = strings.ToLower(root)
	}
	if len(root) == 0 {
		return true
	}
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	if !strings.HasSuffix(path, sep) {
		path += sep
	}
	return strings.HasPrefix(path, root)
}
