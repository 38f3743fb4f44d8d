package ledger

import "fmt"

// MutationKind names the single field a Mutation changes.
type MutationKind int

const (
	MutateProgress MutationKind = iota + 1
	MutateSynced
	MutateLock
)

func (k MutationKind) String() string {
	switch k {
	case MutateProgress:
		return "progress"
	case MutateSynced:
		return "synced"
	case MutateLock:
		return "lock"
	}
	return fmt.Sprintf("MutationKind(%d)", int(k))
}

// Mutation describes one in-place change to a tracked file. Only the field
// matching Kind is read.
type Mutation struct {
	Kind     MutationKind
	Progress Progress  // MutateProgress
	Revision string    // MutateSynced
	Lock     LockState // MutateLock
}

// update is the only place an existing entry is modified. It applies m to
// the entry for key and returns a copy of the result.
func (l *Ledger) update(key string, m Mutation) (TrackedFile, error) {
	key, err := NormalizeKey(key)
	if err != nil {
		return TrackedFile{}, err
	}
	i := l.index(key)
	if i < 0 {
		return TrackedFile{}, fmt.Errorf("%w: %s", ErrNotTracked, key)
	}

	f := &l.Files[i]
	switch m.Kind {
	case MutateProgress:
		f.Progress = m.Progress
	case MutateSynced:
		f.TrackRev = m.Revision
		f.Synced = true
	case MutateLock:
		f.Lock = m.Lock
	default:
		return TrackedFile{}, fmt.Errorf("%w: %s", errUnknownMutation, m.Kind)
	}
	return *f, nil
}
