package gittrans

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/bianoble/git-trans/internal/engine"
	"github.com/bianoble/git-trans/internal/ledger"
	"github.com/bianoble/git-trans/internal/workspace"
)

// InitOptions configures Init.
type InitOptions struct {
	// Lang is the target language code. Default: the configured default_lang.
	Lang string
	// Tag is the anchor ref. Default: the configured default_tag.
	Tag string
	// Force replaces an existing ledger.
	Force bool
}

// Init creates the ledger document anchored at opts.Tag.
func (c *Client) Init(ctx context.Context, opts InitOptions) (*ledger.Ledger, error) {
	lang := opts.Lang
	if lang == "" {
		lang = c.cfg.DefaultLang
	}
	if lang == "" {
		return nil, fmt.Errorf("a language code is required (pass one or set default_lang)")
	}
	tag := opts.Tag
	if tag == "" {
		tag = c.cfg.DefaultTag
	}

	if _, err := os.Stat(c.ws.RecordsPath); err == nil && !opts.Force {
		return nil, fmt.Errorf("%w: %s exists (use --force to replace it)", ledger.ErrAlreadyInitialized, c.ws.RecordsKey())
	}

	l, err := ledger.Init(ctx, c.gw, c.ws.ProjectName(), lang, tag, c.now())
	if err != nil {
		return nil, err
	}
	if err := c.store(l); err != nil {
		return nil, err
	}
	c.logger.Debug("initialized ledger", "lang", lang, "track_rev", l.Meta.TrackRev)
	return l, nil
}

// Add starts tracking paths and seeds a mirror copy of each file in the
// side-channel directory. An existing mirror copy is kept. When any path
// fails, the copies seeded by this call are removed again.
func (c *Client) Add(ctx context.Context, paths []string, lock bool) ([]ledger.TrackedFile, error) {
	keys, err := c.canonicalize(paths)
	if err != nil {
		return nil, err
	}

	var (
		added  []ledger.TrackedFile
		seeded []string
	)
	err = c.mutate(ctx, func(l *ledger.Ledger) error {
		for _, key := range keys {
			info, err := os.Stat(c.ws.Abs(key))
			if err != nil {
				return &workspace.IOError{Op: "stat", Path: key, Err: err}
			}
			if !info.Mode().IsRegular() {
				return fmt.Errorf("%s is not a regular file", key)
			}
			f, err := l.Add(ctx, c.gw, key, lock)
			if err != nil {
				return err
			}
			added = append(added, f)
		}
		for _, key := range keys {
			mirror := c.ws.MirrorKey(key)
			err := workspace.SafeCopy(c.ws.Abs(key), c.ws.Root, mirror, false)
			if errors.Is(err, os.ErrExist) {
				continue
			}
			if err != nil {
				return fmt.Errorf("seeding mirror copy of %s: %w", key, err)
			}
			seeded = append(seeded, mirror)
		}
		return nil
	})
	if err != nil {
		for _, mirror := range seeded {
			err = multierr.Append(err, workspace.SafeRemove(c.ws.Root, mirror))
		}
		return nil, err
	}
	return added, nil
}

// Remove stops tracking paths. With purge, the mirror copies and generated
// diffs are deleted as well, after the ledger is written.
func (c *Client) Remove(ctx context.Context, paths []string, purge bool) ([]ledger.TrackedFile, error) {
	keys, err := c.canonicalize(paths)
	if err != nil {
		return nil, err
	}

	var removed []ledger.TrackedFile
	err = c.mutate(ctx, func(l *ledger.Ledger) error {
		for _, key := range keys {
			f, err := l.Remove(key)
			if err != nil {
				return err
			}
			removed = append(removed, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !purge {
		return removed, nil
	}
	var errs error
	for _, f := range removed {
		errs = multierr.Append(errs, workspace.SafeRemove(c.ws.Root, c.ws.MirrorKey(f.Path)))
		errs = multierr.Append(errs, workspace.SafeRemove(c.ws.Root, c.ws.DiffArtifactKey(f.Path)))
	}
	return removed, errs
}

// Mark sets the progress of paths.
func (c *Client) Mark(ctx context.Context, p ledger.Progress, paths []string) ([]ledger.TrackedFile, error) {
	return c.each(ctx, paths, func(l *ledger.Ledger, key string) (ledger.TrackedFile, error) {
		return l.MarkProgress(key, p)
	})
}

// Sync re-anchors paths at their latest upstream revision.
func (c *Client) Sync(ctx context.Context, paths []string) ([]ledger.TrackedFile, error) {
	return c.each(ctx, paths, func(l *ledger.Ledger, key string) (ledger.TrackedFile, error) {
		return l.SetSynced(ctx, c.gw, key)
	})
}

// SetLock locks or unlocks paths. Locks are advisory.
func (c *Client) SetLock(ctx context.Context, paths []string, locked bool) ([]ledger.TrackedFile, error) {
	return c.each(ctx, paths, func(l *ledger.Ledger, key string) (ledger.TrackedFile, error) {
		return l.SetLock(key, locked)
	})
}

// each applies op to every path inside a single mutation.
func (c *Client) each(ctx context.Context, paths []string, op func(*ledger.Ledger, string) (ledger.TrackedFile, error)) ([]ledger.TrackedFile, error) {
	keys, err := c.canonicalize(paths)
	if err != nil {
		return nil, err
	}

	var out []ledger.TrackedFile
	err = c.mutate(ctx, func(l *ledger.Ledger) error {
		for _, key := range keys {
			f, err := op(l, key)
			if err != nil {
				return err
			}
			out = append(out, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the stored entries under dir, relative to the invocation
// directory. An empty dir means the invocation directory; all lists every
// entry. No repository queries are made.
func (c *Client) List(ctx context.Context, dir string, all bool) ([]ledger.TrackedFile, error) {
	l, err := c.load()
	if err != nil {
		return nil, err
	}
	if all {
		return l.Filter(ledger.All()), nil
	}
	key, err := c.ws.CanonicalizeDir(dir)
	if err != nil {
		return nil, err
	}
	return l.Filter(ledger.UnderDir(key)), nil
}

// Show returns the entries in state. The synced and unsynced states are
// computed live; the others come from the stored fields.
func (c *Client) Show(ctx context.Context, state State) ([]ledger.TrackedFile, error) {
	l, err := c.load()
	if err != nil {
		return nil, err
	}

	switch state {
	case StateTodo:
		return l.Filter(ledger.ByProgress(ledger.Todo)), nil
	case StateReview:
		return l.Filter(ledger.ByProgress(ledger.Review)), nil
	case StateDone:
		return l.Filter(ledger.ByProgress(ledger.Done)), nil
	case StateLocked:
		return l.Filter(ledger.ByLock(ledger.Locked)), nil
	case StateUnlocked:
		return l.Filter(ledger.ByLock(ledger.Unlocked)), nil
	case StateSynced, StateUnsynced:
		statuses, err := c.statusEngine().Check(ctx, l.Files)
		if err != nil {
			return nil, err
		}
		current, stale := engine.Partition(statuses)
		if state == StateSynced {
			return current, nil
		}
		return stale, nil
	}
	return nil, fmt.Errorf("unknown state %q", string(state))
}

// Status reports the live sync state of every tracked file.
func (c *Client) Status(ctx context.Context) ([]FileStatus, error) {
	l, err := c.load()
	if err != nil {
		return nil, err
	}
	return c.statusEngine().Check(ctx, l.Files)
}

// Diff returns the upstream changes to path since it was last synced.
func (c *Client) Diff(ctx context.Context, path string) (*DiffResult, error) {
	return c.diff(ctx, path, false)
}

// GenDiff writes the upstream changes to path into a .diff file next to its
// mirror copy.
func (c *Client) GenDiff(ctx context.Context, path string) (*DiffResult, error) {
	return c.diff(ctx, path, true)
}

func (c *Client) diff(ctx context.Context, path string, write bool) (*DiffResult, error) {
	key, err := c.ws.Canonicalize(path)
	if err != nil {
		return nil, err
	}
	l, err := c.load()
	if err != nil {
		return nil, err
	}
	eng := &engine.DiffEngine{Gateway: c.gw, Workspace: c.ws, Logger: c.logger}
	if write {
		return eng.GenDiff(ctx, l, key)
	}
	return eng.Diff(ctx, l, key)
}

// Cover copies the side-channel directory over the working tree.
func (c *Client) Cover(ctx context.Context, opts CoverOptions) (*CoverResult, error) {
	if _, err := c.load(); err != nil {
		return nil, err
	}
	eng := &engine.CoverEngine{Workspace: c.ws, Exclude: c.cfg.Cover.Exclude, Logger: c.logger}
	return eng.Cover(ctx, opts)
}

// Reset restores every file Cover would write to its content at HEAD.
func (c *Client) Reset(ctx context.Context, opts CoverOptions) (*ResetResult, error) {
	if _, err := c.load(); err != nil {
		return nil, err
	}
	eng := &engine.ResetEngine{Gateway: c.gw, Workspace: c.ws, Exclude: c.cfg.Cover.Exclude, Logger: c.logger}
	return eng.Reset(ctx, opts)
}

// Log returns the one-line history of path, defaulting to the side-channel
// directory. A limit of zero uses the configured log_limit.
func (c *Client) Log(ctx context.Context, path string, limit int) (string, error) {
	key := c.ws.TransKey()
	if path != "" {
		var err error
		if key, err = c.ws.CanonicalizeDir(path); err != nil {
			return "", err
		}
		if key == "" {
			key = "."
		}
	}
	if limit <= 0 {
		limit = c.cfg.LogLimit
	}
	return c.gw.Log(ctx, key, limit)
}

func (c *Client) statusEngine() *engine.StatusEngine {
	return &engine.StatusEngine{Gateway: c.gw, Logger: c.logger}
}

// canonicalize turns every path into a ledger key, failing on the first
// invalid one.
func (c *Client) canonicalize(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths given")
	}
	keys := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		key, err := c.ws.Canonicalize(p)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys, nil
}
