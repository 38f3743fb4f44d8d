package workspace

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// IOError is a filesystem failure on a specific path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MirrorFile is a file in the side-channel directory and the working-tree
// key it mirrors.
type MirrorFile struct {
	Key    string // target, relative to the repository root
	Source string // absolute path inside the side-channel directory
}

// WalkMirror lists every regular file under the side-channel directory in
// lexical order, skipping the ledger document and files whose mirrored key
// matches one of the exclude globs. A glob without a slash also matches the
// file's base name.
func (c *Context) WalkMirror(exclude []string) ([]MirrorFile, error) {
	var files []MirrorFile
	err := filepath.WalkDir(c.TransDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return ioError("walk", p, walkErr)
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if p == c.RecordsPath {
			return nil
		}

		rel, err := filepath.Rel(c.TransDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if Excluded(key, exclude) {
			return nil
		}
		files = append(files, MirrorFile{Key: key, Source: p})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Excluded reports whether key matches any of the globs.
func Excluded(key string, globs []string) bool {
	base := path.Base(key)
	for _, g := range globs {
		if ok, _ := path.Match(g, key); ok {
			return true
		}
		if !strings.Contains(g, "/") {
			if ok, _ := path.Match(g, base); ok {
				return true
			}
		}
	}
	return false
}
