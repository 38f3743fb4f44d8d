package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/multierr"

	"github.com/bianoble/git-trans/internal/ledger"
	"github.com/bianoble/git-trans/internal/vcs"
	"github.com/bianoble/git-trans/internal/workspace"
)

// ResetEngine undoes a cover by restoring every mirrored path from HEAD.
type ResetEngine struct {
	Gateway   vcs.Gateway
	Workspace *workspace.Context
	// Exclude holds globs of mirrored keys that are never touched.
	Exclude []string
	Logger  *slog.Logger
}

// Reset restores each file cover would write to its content at HEAD, and
// removes it when it does not exist at HEAD. Failures are collected and
// returned together after every file has been tried.
func (e *ResetEngine) Reset(ctx context.Context, opts Options) (*ResetResult, error) {
	log := orDiscard(e.Logger)

	files, err := mirroredFiles(e.Workspace, e.Exclude)
	if err != nil {
		return nil, err
	}

	result := &ResetResult{}
	var errs error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, multierr.Append(errs, err)
		}

		content, found, err := e.Gateway.Show(ctx, ledger.CurrentTag, f.Key)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reading %s at %s: %w", f.Key, ledger.CurrentTag, err))
			continue
		}

		if !found {
			if opts.DryRun {
				result.Removed = append(result.Removed, FileAction{Path: f.Key, Action: "would remove"})
				continue
			}
			if err := workspace.SafeRemove(e.Workspace.Root, f.Key); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("removing %s: %w", f.Key, err))
				continue
			}
			log.Debug("removed covered file", "path", f.Key)
			result.Removed = append(result.Removed, FileAction{Path: f.Key, Action: "removed"})
			continue
		}

		if opts.DryRun {
			result.Restored = append(result.Restored, FileAction{Path: f.Key, Action: "would restore"})
			continue
		}
		if err := workspace.SafeWrite(e.Workspace.Root, f.Key, content, filePerm(e.Workspace.Abs(f.Key))); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("restoring %s: %w", f.Key, err))
			continue
		}
		log.Debug("restored file", "path", f.Key)
		result.Restored = append(result.Restored, FileAction{Path: f.Key, Action: "restored"})
	}
	return result, errs
}

// filePerm keeps the mode of an existing file, defaulting to 0644.
func filePerm(p string) os.FileMode {
	if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return 0644
}
