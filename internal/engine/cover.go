package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"github.com/bianoble/git-trans/internal/workspace"
)

// CoverEngine copies the side-channel directory over the working tree.
type CoverEngine struct {
	Workspace *workspace.Context
	// Exclude holds globs of mirrored keys that are never copied.
	Exclude []string
	Logger  *slog.Logger
}

// Cover copies every mirrored file to its place under the repository root,
// overwriting what is there. It keeps going after a failed file; the failures
// are returned together and the result counts only the files copied.
func (e *CoverEngine) Cover(ctx context.Context, opts Options) (*CoverResult, error) {
	log := orDiscard(e.Logger)

	files, err := mirroredFiles(e.Workspace, e.Exclude)
	if err != nil {
		return nil, err
	}

	result := &CoverResult{}
	var errs error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, multierr.Append(errs, err)
		}
		if opts.DryRun {
			result.Copied = append(result.Copied, FileAction{Path: f.Key, Action: "would copy"})
			continue
		}
		if err := workspace.SafeCopy(f.Source, e.Workspace.Root, f.Key, true); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("covering %s: %w", f.Key, err))
			continue
		}
		log.Debug("covered file", "path", f.Key)
		result.Copied = append(result.Copied, FileAction{Path: f.Key, Action: "copied"})
	}
	return result, errs
}

// mirroredFiles lists the side-channel files that map onto the working tree.
// Keys that would land back inside the side-channel directory or inside the
// repository's own metadata are left out.
func mirroredFiles(c *workspace.Context, exclude []string) ([]workspace.MirrorFile, error) {
	all, err := c.WalkMirror(exclude)
	if err != nil {
		return nil, err
	}
	files := all[:0]
	for _, f := range all {
		if c.InTransDir(f.Key) || f.Key == ".git" || strings.HasPrefix(f.Key, ".git/") {
			continue
		}
		files = append(files, f)
	}
	return files, nil
}
