// Package vcs is the boundary between git-trans and the version-control
// system. Every method is a query: nothing here mutates the repository.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotARepository is returned when the working directory is not inside a repository.
	ErrNotARepository = errors.New("not a git repository")

	// ErrInvalidRevision is returned when a ref or tag does not resolve to a revision.
	ErrInvalidRevision = errors.New("invalid revision")
)

// Gateway answers the questions git-trans needs to ask the version-control
// system. Paths are repository-root-relative with forward slashes, except for
// RepositoryRoot and Prefix, which describe the gateway's own directory.
type Gateway interface {
	// RepositoryRoot returns the absolute path of the repository top level.
	RepositoryRoot(ctx context.Context) (string, error)

	// Prefix returns the gateway directory relative to the repository root,
	// with a trailing slash, or "" at the root.
	Prefix(ctx context.Context) (string, error)

	// ResolveRevision turns a ref or tag into a concrete revision id.
	ResolveRevision(ctx context.Context, ref string) (string, error)

	// LatestRevision returns the last revision that touched path,
	// or "" when the path has no history.
	LatestRevision(ctx context.Context, path string) (string, error)

	// DiffText returns the textual diff of path between two revisions.
	DiffText(ctx context.Context, path, oldRev, newRev string) (string, error)

	// Show returns the content of path at rev. found is false when the
	// path does not exist at that revision.
	Show(ctx context.Context, rev, path string) (content []byte, found bool, err error)

	// Log returns a one-line-per-commit history of path, newest first.
	Log(ctx context.Context, path string, limit int) (string, error)
}

// CommandError describes a failed VCS invocation.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ShortRevision abbreviates a revision id for display.
func ShortRevision(rev string) string {
	if rev == "" {
		return "(none)"
	}
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}
