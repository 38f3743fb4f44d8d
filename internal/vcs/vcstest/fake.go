// Package vcstest provides an in-memory vcs.Gateway for tests.
package vcstest

import (
	"context"
	"fmt"

	"github.com/bianoble/git-trans/internal/vcs"
)

// Fake is a scripted vcs.Gateway. The zero value behaves like an empty
// repository rooted at Root.
type Fake struct {
	Root      string
	PrefixDir string

	// Refs maps ref names ("HEAD", tags) to revisions.
	Refs map[string]string
	// Latest maps paths to the last revision that touched them.
	Latest map[string]string
	// Diffs maps DiffKey(path, old, new) to diff text.
	Diffs map[string]string
	// Files maps revision -> path -> content.
	Files map[string]map[string][]byte
	// History maps paths to log output.
	History map[string]string

	// NotRepo makes RepositoryRoot and Prefix fail.
	NotRepo bool
	// Err, when set, is returned by every revision query.
	Err error

	// Calls records every method invocation in order.
	Calls []string
}

var _ vcs.Gateway = (*Fake)(nil)

// New creates a Fake rooted at root.
func New(root string) *Fake {
	return &Fake{
		Root:    root,
		Refs:    make(map[string]string),
		Latest:  make(map[string]string),
		Diffs:   make(map[string]string),
		Files:   make(map[string]map[string][]byte),
		History: make(map[string]string),
	}
}

// DiffKey is the Diffs map key for a diff request.
func DiffKey(path, oldRev, newRev string) string {
	return path + "|" + oldRev + "|" + newRev
}

// Commit records a new revision touching paths and moves HEAD to it.
// contents, when non-nil, sets the file contents at that revision.
func (f *Fake) Commit(rev string, contents map[string]string, paths ...string) {
	prev := f.Files[f.Refs["HEAD"]]
	snapshot := make(map[string][]byte, len(prev)+len(contents))
	for p, c := range prev {
		snapshot[p] = c
	}
	for p, c := range contents {
		snapshot[p] = []byte(c)
		f.Latest[p] = rev
	}
	for _, p := range paths {
		f.Latest[p] = rev
	}
	f.Files[rev] = snapshot
	f.Refs["HEAD"] = rev
}

func (f *Fake) RepositoryRoot(ctx context.Context) (string, error) {
	f.Calls = append(f.Calls, "RepositoryRoot")
	if f.NotRepo {
		return "", vcs.ErrNotARepository
	}
	return f.Root, nil
}

func (f *Fake) Prefix(ctx context.Context) (string, error) {
	f.Calls = append(f.Calls, "Prefix")
	if f.NotRepo {
		return "", vcs.ErrNotARepository
	}
	return f.PrefixDir, nil
}

func (f *Fake) ResolveRevision(ctx context.Context, ref string) (string, error) {
	f.Calls = append(f.Calls, "ResolveRevision "+ref)
	if f.Err != nil {
		return "", f.Err
	}
	if rev, ok := f.Refs[ref]; ok {
		return rev, nil
	}
	// Concrete revisions resolve to themselves.
	if _, ok := f.Files[ref]; ok {
		return ref, nil
	}
	return "", fmt.Errorf("%w: %s is not a valid revision", vcs.ErrInvalidRevision, ref)
}

func (f *Fake) LatestRevision(ctx context.Context, path string) (string, error) {
	f.Calls = append(f.Calls, "LatestRevision "+path)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Latest[path], nil
}

func (f *Fake) DiffText(ctx context.Context, path, oldRev, newRev string) (string, error) {
	f.Calls = append(f.Calls, "DiffText "+path)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Diffs[DiffKey(path, oldRev, newRev)], nil
}

func (f *Fake) Show(ctx context.Context, rev, path string) ([]byte, bool, error) {
	f.Calls = append(f.Calls, "Show "+path)
	resolved, err := f.ResolveRevision(ctx, rev)
	if err != nil {
		return nil, false, err
	}
	content, ok := f.Files[resolved][path]
	return content, ok, nil
}

func (f *Fake) Log(ctx context.Context, path string, limit int) (string, error) {
	f.Calls = append(f.Calls, "Log "+path)
	if f.Err != nil {
		return "", f.Err
	}
	return f.History[path], nil
}
