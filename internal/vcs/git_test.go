package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// newTestRepo creates a repository with one commit containing docs/readme.md.
func newTestRepo(t *testing.T) (string, func(args ...string) string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	run := func(args ...string) string {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test.com",
			"GIT_CONFIG_NOSYSTEM=1", "HOME="+dir)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v: %s: %v", args, out, err)
		}
		return strings.TrimSpace(string(out))
	}

	run("init", "-b", "main")
	writeFile(t, filepath.Join(dir, "docs", "readme.md"), "# Readme\n")
	writeFile(t, filepath.Join(dir, "other.md"), "# Other\n")
	run("add", ".")
	run("commit", "-m", "initial")
	return dir, run
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGitRepositoryRootAndPrefix(t *testing.T) {
	dir, _ := newTestRepo(t)
	ctx := context.Background()

	g := NewGit("", filepath.Join(dir, "docs"), nil)
	root, err := g.RepositoryRoot(ctx)
	if err != nil {
		t.Fatalf("RepositoryRoot: %v", err)
	}
	if root != dir {
		t.Errorf("root = %q, want %q", root, dir)
	}

	prefix, err := g.Prefix(ctx)
	if err != nil {
		t.Fatalf("Prefix: %v", err)
	}
	if prefix != "docs/" {
		t.Errorf("prefix = %q, want %q", prefix, "docs/")
	}
}

func TestGitNotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := NewGit("", dir, nil).RepositoryRoot(context.Background())
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("err = %v, want ErrNotARepository", err)
	}
}

func TestGitResolveRevision(t *testing.T) {
	dir, run := newTestRepo(t)
	g := NewGit("", dir, nil)
	ctx := context.Background()

	head := run("rev-parse", "HEAD")
	got, err := g.ResolveRevision(ctx, "HEAD")
	if err != nil {
		t.Fatalf("ResolveRevision: %v", err)
	}
	if got != head {
		t.Errorf("HEAD = %q, want %q", got, head)
	}

	run("tag", "v1.0")
	got, err = g.ResolveRevision(ctx, "v1.0")
	if err != nil {
		t.Fatalf("ResolveRevision(tag): %v", err)
	}
	if got != head {
		t.Errorf("v1.0 = %q, want %q", got, head)
	}

	for _, ref := range []string{"no-such-tag", "", "--all"} {
		if _, err := g.ResolveRevision(ctx, ref); !errors.Is(err, ErrInvalidRevision) {
			t.Errorf("ResolveRevision(%q) err = %v, want ErrInvalidRevision", ref, err)
		}
	}
}

func TestGitLatestRevisionAndDiff(t *testing.T) {
	dir, run := newTestRepo(t)
	g := NewGit("", dir, nil)
	ctx := context.Background()

	first := run("rev-parse", "HEAD")
	writeFile(t, filepath.Join(dir, "docs", "readme.md"), "# Readme\nnew line\n")
	run("commit", "-am", "update readme")
	second := run("rev-parse", "HEAD")

	got, err := g.LatestRevision(ctx, "docs/readme.md")
	if err != nil {
		t.Fatalf("LatestRevision: %v", err)
	}
	if got != second {
		t.Errorf("latest readme = %q, want %q", got, second)
	}

	got, err = g.LatestRevision(ctx, "other.md")
	if err != nil {
		t.Fatalf("LatestRevision: %v", err)
	}
	if got != first {
		t.Errorf("latest other = %q, want %q", got, first)
	}

	got, err = g.LatestRevision(ctx, "missing.md")
	if err != nil {
		t.Fatalf("LatestRevision(missing): %v", err)
	}
	if got != "" {
		t.Errorf("latest missing = %q, want empty", got)
	}

	diff, err := g.DiffText(ctx, "docs/readme.md", first, second)
	if err != nil {
		t.Fatalf("DiffText: %v", err)
	}
	if !strings.Contains(diff, "+new line") {
		t.Errorf("diff missing added line:\n%s", diff)
	}
}

func TestGitShow(t *testing.T) {
	dir, _ := newTestRepo(t)
	g := NewGit("", dir, nil)
	ctx := context.Background()

	content, found, err := g.Show(ctx, "HEAD", "docs/readme.md")
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if !found || string(content) != "# Readme\n" {
		t.Errorf("Show = %q, %v", content, found)
	}

	_, found, err = g.Show(ctx, "HEAD", "docs/absent.md")
	if err != nil {
		t.Fatalf("Show(absent): %v", err)
	}
	if found {
		t.Error("expected absent file to be not found")
	}
}

func TestGitLog(t *testing.T) {
	dir, _ := newTestRepo(t)
	out, err := NewGit("", dir, nil).Log(context.Background(), "docs", 5)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if !strings.Contains(out, "initial") {
		t.Errorf("log missing commit subject:\n%s", out)
	}
}

func TestShortRevision(t *testing.T) {
	tests := []struct {
		rev  string
		want string
	}{
		{"", "(none)"},
		{"abc", "abc"},
		{"0123456789abcdef", "01234567"},
	}
	for _, tt := range tests {
		if got := ShortRevision(tt.rev); got != tt.want {
			t.Errorf("ShortRevision(%q) = %q, want %q", tt.rev, got, tt.want)
		}
	}
}
