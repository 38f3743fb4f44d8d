// Package ledger holds the translation ledger: the per-file record of which
// upstream revision a translation is anchored to, its progress, its sync flag
// and its advisory lock. All state transitions live here. Persistence is in
// load.go and always rewrites the whole document.
package ledger

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bianoble/git-trans/internal/vcs"
)

// Revisions is the part of the VCS gateway the ledger needs.
type Revisions interface {
	ResolveRevision(ctx context.Context, ref string) (string, error)
	LatestRevision(ctx context.Context, path string) (string, error)
}

// Init creates an empty ledger anchored at tag. An explicit tag is stored
// verbatim; the CurrentTag marker is stored as the revision it resolves to.
func Init(ctx context.Context, revs Revisions, projectName, lang, tag string, now time.Time) (*Ledger, error) {
	if strings.TrimSpace(lang) == "" {
		return nil, fmt.Errorf("language code is required")
	}
	if tag == "" {
		tag = CurrentTag
	}

	rev, err := revs.ResolveRevision(ctx, tag)
	if err != nil {
		return nil, err
	}
	if rev == "" {
		return nil, fmt.Errorf("%w: %s", vcs.ErrInvalidRevision, tag)
	}

	trackRev := tag
	if tag == CurrentTag {
		trackRev = rev
	}

	return &Ledger{
		Meta: Meta{
			ProjectName: projectName,
			Lang:        lang,
			TrackRev:    trackRev,
			Datetime:    now.Truncate(time.Second),
		},
		Files: []TrackedFile{},
	}, nil
}

// Add starts tracking key at its latest upstream revision.
// The new entry is Todo, synced, and locked only if lock is set.
func (l *Ledger) Add(ctx context.Context, revs Revisions, key string, lock bool) (TrackedFile, error) {
	key, err := NormalizeKey(key)
	if err != nil {
		return TrackedFile{}, err
	}
	if l.Contains(key) {
		return TrackedFile{}, fmt.Errorf("%w: %s", ErrAlreadyTracked, key)
	}

	rev, err := revs.LatestRevision(ctx, key)
	if err != nil {
		return TrackedFile{}, fmt.Errorf("resolving latest revision of %s: %w", key, err)
	}
	if rev == "" {
		return TrackedFile{}, fmt.Errorf("%w: %s has no history", vcs.ErrInvalidRevision, key)
	}

	f := TrackedFile{
		Path:     key,
		TrackRev: rev,
		Progress: Todo,
		Synced:   true,
	}
	if lock {
		f.Lock = Locked
	}
	l.Files = append(l.Files, f)
	return f, nil
}

// Remove stops tracking key and returns the detached entry.
func (l *Ledger) Remove(key string) (TrackedFile, error) {
	key, err := NormalizeKey(key)
	if err != nil {
		return TrackedFile{}, err
	}
	i := l.index(key)
	if i < 0 {
		return TrackedFile{}, fmt.Errorf("%w: %s", ErrNotTracked, key)
	}
	removed := l.Files[i]
	l.Files = append(l.Files[:i], l.Files[i+1:]...)
	return removed, nil
}

// MarkProgress sets the progress of key. Any state may follow any other.
func (l *Ledger) MarkProgress(key string, p Progress) (TrackedFile, error) {
	if !p.Valid() {
		return TrackedFile{}, fmt.Errorf("unknown progress %q", string(p))
	}
	return l.update(key, Mutation{Kind: MutateProgress, Progress: p})
}

// SetSynced re-anchors key at its latest upstream revision and marks it
// synced. It is the only operation that advances a file's TrackRev.
func (l *Ledger) SetSynced(ctx context.Context, revs Revisions, key string) (TrackedFile, error) {
	key, err := NormalizeKey(key)
	if err != nil {
		return TrackedFile{}, err
	}
	if !l.Contains(key) {
		return TrackedFile{}, fmt.Errorf("%w: %s", ErrNotTracked, key)
	}

	rev, err := revs.LatestRevision(ctx, key)
	if err != nil {
		return TrackedFile{}, fmt.Errorf("resolving latest revision of %s: %w", key, err)
	}
	if rev == "" {
		return TrackedFile{}, fmt.Errorf("%w: %s has no history", vcs.ErrInvalidRevision, key)
	}
	return l.update(key, Mutation{Kind: MutateSynced, Revision: rev})
}

// SetLock locks or unlocks key.
func (l *Ledger) SetLock(key string, locked bool) (TrackedFile, error) {
	state := Unlocked
	if locked {
		state = Locked
	}
	return l.update(key, Mutation{Kind: MutateLock, Lock: state})
}

// Contains reports whether key is tracked.
func (l *Ledger) Contains(key string) bool {
	key, err := NormalizeKey(key)
	if err != nil {
		return false
	}
	return l.index(key) >= 0
}

// Get returns a copy of the entry for key.
func (l *Ledger) Get(key string) (TrackedFile, error) {
	key, err := NormalizeKey(key)
	if err != nil {
		return TrackedFile{}, err
	}
	i := l.index(key)
	if i < 0 {
		return TrackedFile{}, fmt.Errorf("%w: %s", ErrNotTracked, key)
	}
	return l.Files[i], nil
}

// Filter returns copies of the entries matching pred, in insertion order.
func (l *Ledger) Filter(pred func(TrackedFile) bool) []TrackedFile {
	var out []TrackedFile
	for _, f := range l.Files {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

// All matches every entry.
func All() func(TrackedFile) bool {
	return func(TrackedFile) bool { return true }
}

// ByProgress matches entries in progress state p.
func ByProgress(p Progress) func(TrackedFile) bool {
	return func(f TrackedFile) bool { return f.Progress == p }
}

// BySynced matches entries whose stored sync flag equals synced.
func BySynced(synced bool) func(TrackedFile) bool {
	return func(f TrackedFile) bool { return f.Synced == synced }
}

// ByLock matches entries in lock state s.
func ByLock(s LockState) func(TrackedFile) bool {
	return func(f TrackedFile) bool { return f.Lock == s }
}

// UnderDir matches entries at or below the canonical directory dir.
// An empty dir matches everything.
func UnderDir(dir string) func(TrackedFile) bool {
	dir = strings.Trim(dir, "/")
	if dir == "" || dir == "." {
		return All()
	}
	return func(f TrackedFile) bool {
		return f.Path == dir || strings.HasPrefix(f.Path, dir+"/")
	}
}

func (l *Ledger) index(key string) int {
	for i := range l.Files {
		if l.Files[i].Path == key {
			return i
		}
	}
	return -1
}

// NormalizeKey cleans a repository-relative path into the form stored in the
// ledger: forward slashes, no "." or ".." segments, not absolute.
func NormalizeKey(p string) (string, error) {
	raw := p
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if path.IsAbs(p) || (len(p) >= 2 && p[1] == ':') {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidPath, raw)
	}
	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: %q is outside the repository", ErrInvalidPath, raw)
	}
	return p, nil
}
