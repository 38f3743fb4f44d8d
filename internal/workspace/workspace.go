// Package workspace resolves, once per command, where things live: the
// repository root, the invocation's prefix inside it, the side-channel
// directory and the ledger document. It also turns user-supplied paths into
// canonical ledger keys and performs the file operations that must stay
// inside the repository.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Default layout names.
const (
	DefaultTransDir    = ".trans"
	DefaultRecordsFile = "records.toml"
)

// ErrOutsideRepository is returned for paths that do not resolve inside the repository.
var ErrOutsideRepository = errors.New("path is outside the repository")

// Locator finds the repository around a directory.
type Locator interface {
	RepositoryRoot(ctx context.Context) (string, error)
	Prefix(ctx context.Context) (string, error)
}

// Layout names the side-channel directory and the ledger file inside it.
type Layout struct {
	TransDir    string
	RecordsFile string
}

// Context is the resolved location of everything a command touches.
type Context struct {
	// Root is the absolute, symlink-free repository root.
	Root string
	// Prefix is the invocation directory relative to Root in slash form,
	// "" at the root.
	Prefix string
	// TransDir is the absolute side-channel directory.
	TransDir string
	// RecordsPath is the absolute path of the ledger document.
	RecordsPath string

	transKey   string
	recordsKey string
}

// Location is where an invocation runs: the repository root and the
// invocation directory's prefix inside it.
type Location struct {
	Root   string
	Prefix string
}

// Locate queries loc once for the repository root and prefix.
func Locate(ctx context.Context, loc Locator) (Location, error) {
	root, err := loc.RepositoryRoot(ctx)
	if err != nil {
		return Location{}, err
	}
	prefix, err := loc.Prefix(ctx)
	if err != nil {
		return Location{}, err
	}
	return Location{Root: root, Prefix: strings.Trim(filepath.ToSlash(prefix), "/")}, nil
}

// Context lays out the side-channel directory under the located root.
// Empty layout fields take the defaults.
func (l Location) Context(layout Layout) *Context {
	if layout.TransDir == "" {
		layout.TransDir = DefaultTransDir
	}
	if layout.RecordsFile == "" {
		layout.RecordsFile = DefaultRecordsFile
	}

	transKey := path.Clean(filepath.ToSlash(layout.TransDir))
	c := &Context{
		Root:       l.Root,
		Prefix:     l.Prefix,
		TransDir:   filepath.Join(l.Root, filepath.FromSlash(transKey)),
		transKey:   transKey,
		recordsKey: path.Join(transKey, layout.RecordsFile),
	}
	c.RecordsPath = c.Abs(c.recordsKey)
	return c
}

// ProjectName is the base name of the repository root.
func (c *Context) ProjectName() string {
	return filepath.Base(c.Root)
}

// Canonicalize turns a path given on the command line into a ledger key.
// Relative paths are taken from the invocation directory and need not exist.
func (c *Context) Canonicalize(p string) (string, error) {
	key, err := c.keyOf(p)
	if err != nil {
		return "", err
	}
	switch {
	case key == ".":
		return "", fmt.Errorf("%s is the repository root, not a file", p)
	case c.InTransDir(key):
		return "", fmt.Errorf("%s is inside the %s directory", p, c.transKey)
	}
	return key, nil
}

// CanonicalizeDir is Canonicalize for directory filters. An empty path means
// the invocation directory; the repository root maps to "".
func (c *Context) CanonicalizeDir(p string) (string, error) {
	if p == "" {
		return c.Prefix, nil
	}
	key, err := c.keyOf(p)
	if err != nil {
		return "", err
	}
	if key == "." {
		return "", nil
	}
	return key, nil
}

func (c *Context) keyOf(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}

	var key string
	if filepath.IsAbs(p) {
		resolved, err := resolveExistingPath(filepath.Clean(p))
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", p, err)
		}
		if !within(c.Root, resolved) {
			return "", fmt.Errorf("%w: %s", ErrOutsideRepository, p)
		}
		rel, err := filepath.Rel(c.Root, resolved)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrOutsideRepository, p)
		}
		key = filepath.ToSlash(rel)
	} else {
		key = path.Join(c.Prefix, strings.ReplaceAll(filepath.ToSlash(p), `\`, "/"))
	}

	if key == ".." || strings.HasPrefix(key, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRepository, p)
	}
	return key, nil
}

// Abs returns the absolute working-tree path of key.
func (c *Context) Abs(key string) string {
	return filepath.Join(c.Root, filepath.FromSlash(key))
}

// TransKey is the side-channel directory as a repository-relative key.
func (c *Context) TransKey() string {
	return c.transKey
}

// RecordsKey is the ledger document as a repository-relative key.
func (c *Context) RecordsKey() string {
	return c.recordsKey
}

// MirrorKey is where the side-channel copy of key lives.
func (c *Context) MirrorKey(key string) string {
	return path.Join(c.transKey, key)
}

// DiffArtifactKey is where the generated diff for key is written.
func (c *Context) DiffArtifactKey(key string) string {
	return c.MirrorKey(key) + ".diff"
}

// InTransDir reports whether key is the side-channel directory or inside it.
func (c *Context) InTransDir(key string) bool {
	return key == c.transKey || strings.HasPrefix(key, c.transKey+"/")
}

// Relative renders key relative to the invocation directory, for display.
func (c *Context) Relative(key string) string {
	if c.Prefix == "" {
		return key
	}
	rel, err := filepath.Rel(filepath.FromSlash(c.Prefix), filepath.FromSlash(key))
	if err != nil {
		return key
	}
	return filepath.ToSlash(rel)
}
