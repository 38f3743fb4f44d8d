package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bianoble/git-trans/internal/ledger"
	"github.com/bianoble/git-trans/internal/vcs"
	"github.com/bianoble/git-trans/internal/workspace"
)

// DiffEngine produces the upstream changes of tracked files.
type DiffEngine struct {
	Gateway   vcs.Gateway
	Workspace *workspace.Context
	Logger    *slog.Logger
}

// Diff returns the changes to key between its anchor revision and the latest
// revision touching it.
func (e *DiffEngine) Diff(ctx context.Context, l *ledger.Ledger, key string) (*DiffResult, error) {
	f, err := l.Get(key)
	if err != nil {
		return nil, err
	}
	if f.TrackRev == "" {
		return nil, fmt.Errorf("%w: %s has no anchor revision, run 'git trans sync' on it", vcs.ErrInvalidRevision, f.Path)
	}

	latest, err := e.Gateway.LatestRevision(ctx, f.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving latest revision of %s: %w", f.Path, err)
	}
	if latest == "" {
		return nil, fmt.Errorf("%w: %s has no history", vcs.ErrInvalidRevision, f.Path)
	}

	result := &DiffResult{Path: f.Path, TrackRev: f.TrackRev, Latest: latest}
	if latest == f.TrackRev {
		result.UpToDate = true
		return result, nil
	}

	text, err := e.Gateway.DiffText(ctx, f.Path, f.TrackRev, latest)
	if err != nil {
		return nil, fmt.Errorf("diffing %s: %w", f.Path, err)
	}
	result.Text = text
	orDiscard(e.Logger).Debug("computed diff", "path", f.Path, "from", f.TrackRev, "to", latest, "bytes", len(text))
	return result, nil
}

// GenDiff computes the diff of key and writes it next to the file's mirror
// copy as "<key>.diff", replacing any earlier artifact. Nothing is written
// when the file is up to date.
func (e *DiffEngine) GenDiff(ctx context.Context, l *ledger.Ledger, key string) (*DiffResult, error) {
	result, err := e.Diff(ctx, l, key)
	if err != nil {
		return nil, err
	}
	if result.UpToDate {
		return result, nil
	}

	artifact := e.Workspace.DiffArtifactKey(result.Path)
	if err := workspace.SafeWrite(e.Workspace.Root, artifact, []byte(result.Text), 0644); err != nil {
		return nil, fmt.Errorf("writing diff for %s: %w", result.Path, err)
	}
	result.Artifact = artifact
	orDiscard(e.Logger).Debug("wrote diff artifact", "path", result.Path, "artifact", artifact)
	return result, nil
}
