package ledger

import (
	"fmt"
	"strings"
	"time"
)

// CurrentTag is the symbolic anchor meaning "whatever HEAD is right now".
// It is replaced by its resolved revision when a ledger is created.
const CurrentTag = "HEAD"

// Ledger is the whole tracked state of one project.
type Ledger struct {
	Meta  Meta
	Files []TrackedFile

	// fingerprint of the document this ledger was loaded from or last saved to.
	fingerprint string
}

// Meta describes the project the ledger belongs to.
type Meta struct {
	ProjectName string
	Lang        string
	TrackRev    string
	Datetime    time.Time
}

// TrackedFile is one ledger entry. Path is the entry's identity.
type TrackedFile struct {
	Path     string
	TrackRev string
	Progress Progress
	Synced   bool
	Lock     LockState
}

// Progress is the translation workflow state of a file.
type Progress string

const (
	Todo   Progress = "Todo"
	Review Progress = "Review"
	Done   Progress = "Done"
)

// Progresses lists every Progress value in workflow order.
func Progresses() []Progress {
	return []Progress{Todo, Review, Done}
}

// ParseProgress parses a progress name case-insensitively.
// The legacy spelling "ToReview" is accepted for Review.
func ParseProgress(s string) (Progress, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo":
		return Todo, nil
	case "review", "toreview":
		return Review, nil
	case "done":
		return Done, nil
	}
	names := make([]string, 0, len(Progresses()))
	for _, p := range Progresses() {
		names = append(names, p.String())
	}
	return "", fmt.Errorf("unknown progress %q (want one of %s)", s, strings.Join(names, ", "))
}

// Valid reports whether p is one of the known states.
func (p Progress) Valid() bool {
	switch p {
	case Todo, Review, Done:
		return true
	}
	return false
}

func (p Progress) String() string {
	return string(p)
}

// Short returns the one-letter code used in listings.
func (p Progress) Short() string {
	switch p {
	case Todo:
		return "T"
	case Review:
		return "R"
	case Done:
		return "D"
	}
	return "?"
}

func (p Progress) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown progress %q", string(p))
	}
	return []byte(p), nil
}

func (p *Progress) UnmarshalText(text []byte) error {
	// Documents are written with exact names; only the legacy alias is extra.
	switch s := string(text); s {
	case "Todo", "Review", "Done":
		*p = Progress(s)
	case "ToReview":
		*p = Review
	default:
		return fmt.Errorf("unknown progress %q", s)
	}
	return nil
}

// LockState records whether a translator has a file checked out.
// It is advisory: no operation refuses to run on a locked file.
type LockState int

const (
	Unlocked LockState = iota
	Locked
)

func (s LockState) String() string {
	if s == Locked {
		return "Locked"
	}
	return "Unlocked"
}
