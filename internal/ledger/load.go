package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"
	"github.com/zeebo/xxh3"
)

// document is the on-disk schema. It is kept apart from Ledger so the
// legacy encoding of the lock flag (true or absent) stays out of the model.
type document struct {
	Meta  metaRecord   `toml:"meta"`
	Files []fileRecord `toml:"files,omitempty"`
}

type metaRecord struct {
	ProjectName string    `toml:"project_name"`
	Lang        string    `toml:"lang"`
	TrackRev    string    `toml:"track_rev"`
	Datetime    time.Time `toml:"datetime"`
}

type fileRecord struct {
	Path     string   `toml:"path"`
	TrackRev string   `toml:"track_rev"`
	Progress Progress `toml:"progress"`
	Synced   bool     `toml:"synced"`
	Locked   *bool    `toml:"locked,omitempty"`
}

// Load reads and validates a ledger document. Every failure wraps
// ErrDocumentUnreadable.
func Load(path string, logger *slog.Logger) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrDocumentUnreadable, path, err)
	}

	l, err := Decode(data, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Decode parses and validates a ledger document.
func Decode(data []byte, logger *slog.Logger) (*Ledger, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing: %w", ErrDocumentUnreadable, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 && logger != nil {
		logger.Debug("ignoring unknown ledger keys", "keys", fmt.Sprint(undecoded))
	}

	l := fromDocument(doc)
	if errs := Validate(l); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	l.fingerprint = Fingerprint(data)
	return l, nil
}

// Encode renders l in the document layout.
func Encode(l *Ledger) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(toDocument(l)); err != nil {
		return nil, fmt.Errorf("encoding ledger: %w", err)
	}
	return buf.Bytes(), nil
}

// Save replaces the document at path with l in a single atomic write.
// It reports false, and writes nothing, when the encoding equals what was
// last loaded or saved.
func Save(path string, l *Ledger) (bool, error) {
	if errs := Validate(l); len(errs) > 0 {
		return false, &ValidationError{Errors: errs}
	}

	data, err := Encode(l)
	if err != nil {
		return false, err
	}

	fp := Fingerprint(data)
	if fp == l.fingerprint {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return false, fmt.Errorf("writing ledger %s: %w", path, err)
	}
	l.fingerprint = fp
	return true, nil
}

// Fingerprint is a content hash of an encoded document.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ledger validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrDocumentUnreadable
}

// Validate checks a Ledger for semantic correctness.
// Returns a list of validation error messages (empty if valid).
// An entry with an empty track_rev is accepted: older documents hold such
// entries for files added before they had history. They count as drifted
// until synced.
func Validate(l *Ledger) []string {
	var errs []string

	if l.Meta.Lang == "" {
		errs = append(errs, "meta: 'lang' is required")
	}
	if l.Meta.TrackRev == "" {
		errs = append(errs, "meta: 'track_rev' is required")
	}

	seen := make(map[string]bool)
	for i, f := range l.Files {
		prefix := fmt.Sprintf("files[%d]", i)
		if f.Path != "" {
			prefix = fmt.Sprintf("file '%s'", f.Path)
		}

		if f.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: 'path' is required", prefix))
		} else if key, err := NormalizeKey(f.Path); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %s", prefix, err))
		} else if key != f.Path {
			errs = append(errs, fmt.Sprintf("%s: path is not canonical (want '%s')", prefix, key))
		} else if seen[f.Path] {
			errs = append(errs, fmt.Sprintf("%s: duplicate path", prefix))
		} else {
			seen[f.Path] = true
		}

		if !f.Progress.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown progress '%s'", prefix, f.Progress))
		}
	}

	return errs
}

// IsNotInitialized reports whether err means the document does not exist.
func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrDocumentUnreadable) && errors.Is(err, os.ErrNotExist)
}

func fromDocument(doc document) *Ledger {
	l := &Ledger{
		Meta: Meta{
			ProjectName: doc.Meta.ProjectName,
			Lang:        doc.Meta.Lang,
			TrackRev:    doc.Meta.TrackRev,
			Datetime:    doc.Meta.Datetime,
		},
		Files: make([]TrackedFile, 0, len(doc.Files)),
	}
	for _, r := range doc.Files {
		f := TrackedFile{
			Path:     r.Path,
			TrackRev: r.TrackRev,
			Progress: r.Progress,
			Synced:   r.Synced,
		}
		// A legacy "locked = false" means unlocked.
		if r.Locked != nil && *r.Locked {
			f.Lock = Locked
		}
		l.Files = append(l.Files, f)
	}
	return l
}

func toDocument(l *Ledger) document {
	doc := document{
		Meta: metaRecord{
			ProjectName: l.Meta.ProjectName,
			Lang:        l.Meta.Lang,
			TrackRev:    l.Meta.TrackRev,
			Datetime:    l.Meta.Datetime,
		},
		Files: make([]fileRecord, 0, len(l.Files)),
	}
	for _, f := range l.Files {
		r := fileRecord{
			Path:     f.Path,
			TrackRev: f.TrackRev,
			Progress: f.Progress,
			Synced:   f.Synced,
		}
		if f.Lock == Locked {
			locked := true
			r.Locked = &locked
		}
		doc.Files = append(doc.Files, r)
	}
	return doc
}
