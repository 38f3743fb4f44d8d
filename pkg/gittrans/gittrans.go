// Package gittrans provides the public Go library API for git-trans.
//
// git-trans tracks the translation status of files in a git repository. A
// ledger kept in a side-channel directory records, for every tracked file,
// the upstream revision it was translated against, whether it is still in
// sync, its translation progress and an advisory lock.
//
// # Basic Usage
//
//	client, err := gittrans.Open(ctx, gittrans.Options{Dir: "."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start tracking a file
//	added, err := client.Add(ctx, []string{"docs/readme.md"}, false)
//
//	// See which files drifted upstream
//	statuses, err := client.Status(ctx)
//
//	// Re-anchor a file after updating its translation
//	synced, err := client.Sync(ctx, []string{"docs/readme.md"})
package gittrans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bianoble/git-trans/internal/config"
	"github.com/bianoble/git-trans/internal/ledger"
	"github.com/bianoble/git-trans/internal/vcs"
	"github.com/bianoble/git-trans/internal/workspace"
)

// Options configures a git-trans client.
type Options struct {
	// Dir is the invocation directory. Default: the current directory.
	Dir string

	// GitBinary is the git executable. Default: "git" from PATH.
	GitBinary string

	// ConfigPath is an explicit project config file, which must exist.
	// Default: .git-trans.yaml at the repository root, if present.
	ConfigPath string

	// NoInherit skips the system and user config layers. It is also set by
	// GIT_TRANS_NO_INHERIT.
	NoInherit bool

	// Logger receives debug diagnostics. Nil discards them.
	Logger *slog.Logger

	// Gateway replaces the git gateway. Dir and GitBinary are ignored.
	Gateway vcs.Gateway

	// Now is the clock used for new ledgers. Default: time.Now.
	Now func() time.Time
}

// Client is the main entry point for the git-trans library. It resolves the
// repository and configuration once, when opened.
type Client struct {
	gw     vcs.Gateway
	ws     *workspace.Context
	cfg    *config.Config
	layers []config.Layer
	logger *slog.Logger
	now    func() time.Time
}

// Open locates the repository around opts.Dir and loads the configuration.
func Open(ctx context.Context, opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var (
		gw  vcs.Gateway
		loc workspace.Location
		err error
	)
	if opts.Gateway != nil {
		gw = opts.Gateway
		if loc, err = workspace.Locate(ctx, gw); err != nil {
			return nil, err
		}
	} else {
		dir := opts.Dir
		if dir == "" {
			if dir, err = os.Getwd(); err != nil {
				return nil, fmt.Errorf("resolving working directory: %w", err)
			}
		}
		git := vcs.NewGit(opts.GitBinary, dir, logger)
		if loc, err = workspace.Locate(ctx, git); err != nil {
			return nil, err
		}
		// Ledger keys are root-relative, so queries run from the root.
		gw = git.WithDir(loc.Root)
	}

	cfg, layers, err := config.LoadLayered(config.DiscoverOptions{
		Root:       loc.Root,
		ConfigPath: opts.ConfigPath,
		NoInherit:  opts.NoInherit,
	})
	if err != nil {
		return nil, err
	}
	for _, l := range layers {
		if l.Loaded {
			logger.Debug("loaded config layer", "level", l.Level, "path", l.Path)
		}
	}

	ws := loc.Context(workspace.Layout{TransDir: cfg.TransDir, RecordsFile: cfg.RecordsFile})
	logger.Debug("resolved workspace", "root", ws.Root, "prefix", ws.Prefix, "records", ws.RecordsPath)

	return &Client{
		gw:     gw,
		ws:     ws,
		cfg:    cfg,
		layers: layers,
		logger: logger,
		now:    now,
	}, nil
}

// Workspace returns the resolved locations for this client.
func (c *Client) Workspace() *workspace.Context {
	return c.ws
}

// Config returns the merged configuration.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// ConfigLayers reports which configuration files were found and loaded.
func (c *Client) ConfigLayers() []config.Layer {
	return c.layers
}

// load reads the ledger document.
func (c *Client) load() (*ledger.Ledger, error) {
	l, err := ledger.Load(c.ws.RecordsPath, c.logger)
	if err != nil {
		if ledger.IsNotInitialized(err) {
			return nil, fmt.Errorf("%w: run 'git trans init' first: %w", ErrNotInitialized, err)
		}
		return nil, err
	}
	return l, nil
}

// store writes l, skipping the write when nothing changed.
func (c *Client) store(l *ledger.Ledger) error {
	saved, err := ledger.Save(c.ws.RecordsPath, l)
	if err != nil {
		return err
	}
	c.logger.Debug("stored ledger", "path", c.ws.RecordsPath, "written", saved)
	return nil
}

// mutate loads the ledger, applies fn and saves the result once. When fn
// fails nothing is written, so a command over several paths either applies
// to all of them or to none.
func (c *Client) mutate(ctx context.Context, fn func(*ledger.Ledger) error) error {
	l, err := c.load()
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.store(l)
}

// ErrNotInitialized is returned when the repository has no ledger yet.
var ErrNotInitialized = errors.New("repository is not initialized for git-trans")
