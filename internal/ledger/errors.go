package ledger

import "errors"

var (
	ErrAlreadyTracked     = errors.New("file is already tracked")
	ErrNotTracked         = errors.New("file is not tracked")
	ErrDocumentUnreadable = errors.New("ledger document unreadable")
	ErrAlreadyInitialized = errors.New("ledger already initialized")
	ErrInvalidPath        = errors.New("invalid ledger path")
	errUnknownMutation    = errors.New("unknown mutation")
)
