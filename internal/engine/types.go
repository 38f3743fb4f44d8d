// Package engine orchestrates the commands that combine the ledger, the VCS
// gateway and the working tree: the read-only staleness check, diffs, cover
// and reset.
package engine

import (
	"io"
	"log/slog"

	"github.com/bianoble/git-trans/internal/ledger"
)

// FileAction represents an action taken on a single file during cover or reset.
type FileAction struct {
	Path   string
	Action string // "copied", "restored", "removed", "would copy", "would restore", "would remove"
}

// FileStatus is the live sync state of one ledger entry.
type FileStatus struct {
	File ledger.TrackedFile
	// Latest is the newest upstream revision touching the file, "" if none.
	Latest string
	// Current reports whether the stored flag is set and TrackRev still
	// matches Latest. An entry without a TrackRev is never current.
	Current bool
}

// DiffResult holds the upstream changes of one file since its anchor.
type DiffResult struct {
	Path     string
	TrackRev string
	Latest   string
	Text     string
	// UpToDate is set when the anchor is already the latest revision.
	UpToDate bool
	// Artifact is the key of the written .diff file, set by GenDiff.
	Artifact string
}

// CoverResult holds the outcome of a cover operation.
type CoverResult struct {
	Copied []FileAction
}

// Count is the number of files copied successfully.
func (r *CoverResult) Count() int {
	return len(r.Copied)
}

// ResetResult holds the outcome of a reset operation.
type ResetResult struct {
	Restored []FileAction
	Removed  []FileAction
}

// Options configures cover and reset.
type Options struct {
	DryRun bool
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}
