package gittrans

import (
	"fmt"
	"strings"

	"github.com/bianoble/git-trans/internal/engine"
	"github.com/bianoble/git-trans/internal/ledger"
)

// Type aliases re-export ledger and engine types as the public API.
// Users import "github.com/bianoble/git-trans/pkg/gittrans" and use
// gittrans.TrackedFile, gittrans.FileStatus, etc.

type Ledger = ledger.Ledger
type TrackedFile = ledger.TrackedFile
type Progress = ledger.Progress
type LockState = ledger.LockState
type FileStatus = engine.FileStatus
type FileAction = engine.FileAction
type DiffResult = engine.DiffResult
type CoverResult = engine.CoverResult
type ResetResult = engine.ResetResult
type CoverOptions = engine.Options

// State selects entries for Show.
type State string

const (
	StateTodo     State = "todo"
	StateReview   State = "review"
	StateDone     State = "done"
	StateSynced   State = "synced"
	StateUnsynced State = "unsynced"
	StateLocked   State = "locked"
	StateUnlocked State = "unlocked"
)

// States lists every state Show accepts.
func States() []State {
	return []State{StateTodo, StateReview, StateDone, StateSynced, StateUnsynced, StateLocked, StateUnlocked}
}

// ParseState parses a state name, case-insensitively.
func ParseState(s string) (State, error) {
	want := State(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range States() {
		if st == want {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown state %q: must be one of %s", s, joinStates(States()))
}

func joinStates(states []State) string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
