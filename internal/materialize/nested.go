package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// nestedNames are child directories a scaffolding tool may wrongly create
// under a side directory.
var nestedNames = []string{"frontend", "backend"}

// skipDirs are never carried over when merging nested output.
var skipDirs = map[string]bool{"node_modules": true, ".git": true}

// FlattenNested merges every child directory of dir named frontend or backend
// into dir itself, repeating until none is left. Entries already present in
// dir win; the nested copy only fills gaps.
func FlattenNested(dir string) error {
	for {
		nested, err := findNested(dir)
		if err != nil {
			return err
		}
		if nested == "" {
			return nil
		}
		// Move the nested directory aside first so that a grandchild with the
		// same name can land in dir without colliding with its own parent.
		staging, err := stagingName(dir)
		if err != nil {
			return err
		}
		if err := os.Rename(nested, staging); err != nil {
			return fmt.Errorf("stage %s: %w", filepath.Base(nested), err)
		}
		mergeErr := mergeInto(staging, dir)
		if err := os.RemoveAll(staging); err != nil {
			return fmt.Errorf("remove %s: %w", filepath.Base(nested), err)
		}
		if mergeErr != nil {
			return mergeErr
		}
	}
}

func findNested(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		for _, n := range nestedNames {
			if e.Name() == n {
				return filepath.Join(dir, n), nil
			}
		}
	}
	return "", nil
}

func stagingName(dir string) (string, error) {
	tmp, err := os.MkdirTemp(dir, ".merngen-nested-")
	if err != nil {
		return "", err
	}
	if err := os.Remove(tmp); err != nil {
		return "", err
	}
	return tmp, nil
}

// mergeInto moves the contents of src into dst. Directories are merged by
// union; files and links move only when dst has nothing at that name.
func mergeInto(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() && skipDirs[e.Name()] {
			continue
		}
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dst, e.Name())

		existing, statErr := os.Lstat(to)
		switch {
		case statErr == nil && e.IsDir() && existing.IsDir():
			if err := mergeInto(from, to); err != nil {
				errs = append(errs, err)
			}
		case statErr == nil:
			// destination wins
		case !errors.Is(statErr, fs.ErrNotExist):
			errs = append(errs, statErr)
		case e.IsDir():
			if err := os.Mkdir(to, 0o755); err != nil {
				errs = append(errs, err)
				continue
			}
			if err := mergeInto(from, to); err != nil {
				errs = append(errs, err)
			}
		default:
			if err := os.Rename(from, to); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
