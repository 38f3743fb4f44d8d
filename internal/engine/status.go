package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bianoble/git-trans/internal/ledger"
	"github.com/bianoble/git-trans/internal/vcs"
)

// StatusEngine computes the live sync state of ledger entries. It never
// modifies the ledger; SetSynced is the only writer of the synced flag.
type StatusEngine struct {
	Gateway vcs.Gateway
	Logger  *slog.Logger
}

// Check queries the latest revision of every file and reports whether each
// is still current. Results are in the order given.
func (e *StatusEngine) Check(ctx context.Context, files []ledger.TrackedFile) ([]FileStatus, error) {
	log := orDiscard(e.Logger)

	statuses := make([]FileStatus, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		latest, err := e.Gateway.LatestRevision(ctx, f.Path)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", f.Path, err)
		}
		s := FileStatus{
			File:    f,
			Latest:  latest,
			Current: f.Synced && f.TrackRev != "" && latest == f.TrackRev,
		}
		log.Debug("checked file", "path", f.Path, "track_rev", f.TrackRev, "latest", latest, "current", s.Current)
		statuses = append(statuses, s)
	}
	return statuses, nil
}

// Partition splits statuses into current and stale entries.
func Partition(statuses []FileStatus) (current, stale []ledger.TrackedFile) {
	for _, s := range statuses {
		if s.Current {
			current = append(current, s.File)
		} else {
			stale = append(stale, s.File)
		}
	}
	return current, stale
}
