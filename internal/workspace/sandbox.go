package workspace

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// ValidatePath checks that relPath, joined onto root, stays inside root
// after symlinks are resolved. It returns the resolved absolute path.
func ValidatePath(root, relPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving repository root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving repository root symlinks: %w", err)
	}

	candidate := filepath.Clean(filepath.Join(realRoot, relPath))

	// The path may not exist yet, so resolve as much as we can.
	resolved, err := resolveExistingPath(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if !within(realRoot, resolved) {
		return "", fmt.Errorf("%w: '%s' resolves to '%s'", ErrOutsideRepository, relPath, resolved)
	}
	return resolved, nil
}

// within reports whether path is root or below it. The trailing separator
// keeps "root2" from matching "root".
func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

// resolveExistingPath resolves symlinks for the longest existing prefix of
// path and appends the non-existing suffix.
func resolveExistingPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == path {
		return path, nil
	}

	resolvedDir, err := resolveExistingPath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}

// SafeWrite atomically writes content to relPath inside root.
func SafeWrite(root, relPath string, content []byte, perm os.FileMode) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return ioError("mkdir", filepath.Dir(resolved), err)
	}
	if err := atomic.WriteFile(resolved, bytes.NewReader(content)); err != nil {
		return ioError("write", resolved, err)
	}
	// atomic.WriteFile doesn't set permissions for new files.
	if err := os.Chmod(resolved, perm); err != nil {
		return ioError("chmod", resolved, err)
	}
	return nil
}

// SafeCopy copies the file at src to relPath inside root, creating parent
// directories. An existing destination is replaced only when overwrite is set.
func SafeCopy(src, root, relPath string, overwrite bool) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Lstat(resolved); err == nil {
			return ioError("copy", resolved, os.ErrExist)
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return ioError("open", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return ioError("stat", src, err)
	}
	if !info.Mode().IsRegular() {
		return ioError("copy", src, fmt.Errorf("not a regular file"))
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return ioError("mkdir", filepath.Dir(resolved), err)
	}
	if err := atomic.WriteFile(resolved, in); err != nil {
		return ioError("write", resolved, err)
	}
	if err := os.Chmod(resolved, info.Mode().Perm()); err != nil {
		return ioError("chmod", resolved, err)
	}
	return nil
}

// SafeRemove removes the file at relPath inside root. A missing file is not
// an error.
func SafeRemove(root, relPath string) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return ioError("remove", resolved, err)
	}
	return nil
}

// ioError builds an IOError, dropping an inner *fs.PathError that names the
// same path so the message does not repeat it.
func ioError(op, path string, err error) *IOError {
	var pe *fs.PathError
	if errors.As(err, &pe) && pe.Path == path {
		err = pe.Err
	}
	return &IOError{Op: op, Path: path, Err: err}
}
