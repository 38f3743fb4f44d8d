package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// Git implements Gateway by shelling out to the git command.
// All commands run with "-C Dir", so paths are interpreted relative to Dir.
type Git struct {
	Binary string
	Dir    string
	Logger *slog.Logger
}

// NewGit creates a Git gateway rooted at dir.
func NewGit(binary, dir string, logger *slog.Logger) *Git {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Git{Binary: binary, Dir: dir, Logger: logger}
}

// WithDir returns a copy of the gateway that runs commands in dir.
func (g *Git) WithDir(dir string) *Git {
	c := *g
	c.Dir = dir
	return &c
}

func (g *Git) RepositoryRoot(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotARepository, err)
	}
	root := filepath.FromSlash(out)
	// The rest of git-trans compares against symlink-free paths.
	if resolved, evalErr := filepath.EvalSymlinks(root); evalErr == nil {
		root = resolved
	}
	return root, nil
}

func (g *Git) Prefix(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--show-prefix")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotARepository, err)
	}
	return out, nil
}

func (g *Git) ResolveRevision(ctx context.Context, ref string) (string, error) {
	if ref == "" || strings.HasPrefix(ref, "-") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRevision, ref)
	}
	out, err := g.run(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil || out == "" {
		return "", fmt.Errorf("%w: %s is not a valid revision", ErrInvalidRevision, ref)
	}
	return out, nil
}

func (g *Git) LatestRevision(ctx context.Context, path string) (string, error) {
	out, err := g.run(ctx, "log", "-n", "1", "--pretty=format:%H", "--", path)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (g *Git) DiffText(ctx context.Context, path, oldRev, newRev string) (string, error) {
	out, err := g.output(ctx, "diff", oldRev, newRev, "--", path)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (g *Git) Show(ctx context.Context, rev, path string) ([]byte, bool, error) {
	resolved, err := g.ResolveRevision(ctx, rev)
	if err != nil {
		return nil, false, err
	}
	object := resolved + ":" + path

	if _, err := g.output(ctx, "cat-file", "-e", object); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, false, nil
		}
		return nil, false, err
	}

	content, err := g.output(ctx, "cat-file", "blob", object)
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}

func (g *Git) Log(ctx context.Context, path string, limit int) (string, error) {
	args := []string{"log", "--oneline", "--no-decorate"}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	if path != "" {
		args = append(args, "--", path)
	}
	return g.run(ctx, args...)
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	out, err := g.output(ctx, args...)
	return strings.TrimSpace(string(out)), err
}

// output runs git and returns its raw stdout. Failures carry stderr.
func (g *Git) output(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+3)
	full = append(full, "-C", g.Dir, "--literal-pathspecs")
	full = append(full, args...)

	bin := g.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	cmd := exec.CommandContext(ctx, bin, full...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if g.Logger != nil {
		g.Logger.Debug("running git", "dir", g.Dir, "args", args)
	}

	out, err := cmd.Output()
	if err != nil {
		return out, &CommandError{Args: args, Output: strings.TrimSpace(stderr.String()), Err: err}
	}
	return out, nil
}
