package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bianoble/git-trans/internal/ledger"
	"github.com/bianoble/git-trans/internal/vcs"
	"github.com/bianoble/git-trans/pkg/gittrans"
)

// resetFlags restores every flag variable to its default, since cobra only
// assigns the flags present on the command line.
func resetFlags() {
	configPath, gitBinary, workDir = "", "", ""
	verbose, quiet = false, false
	logLevel, logFormat = "warn", "text"
	initForce, addLock, rmPurge, lsAll, diffWrite = false, false, false, false, false
	coverDryRun, coverYes, resetDryRun, resetYes = false, false, false, false
	logLimit = 0
}

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() { stdout, stderr = oldOut, oldErr }()

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("git-trans %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// newGitRepo creates a repository with docs/readme.md committed and returns
// its root and a git runner.
func newGitRepo(t *testing.T) (string, func(args ...string)) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", dir)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_TRANS_NO_INHERIT", "1")
	t.Setenv("GIT_AUTHOR_NAME", "test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@test.com")
	t.Setenv("GIT_COMMITTER_NAME", "test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@test.com")

	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %s: %v", args, out, err)
		}
	}

	git("init", "-q")
	writeFile(t, dir, "docs/readme.md", "# Readme\n")
	git("add", ".")
	git("commit", "-m", "initial")
	return dir, git
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestEndToEnd(t *testing.T) {
	root, git := newGitRepo(t)
	docs := filepath.Join(root, "docs")

	out := mustRun(t, "-C", docs, "init", "zh-CN")
	require.Contains(t, out, "Initialized .trans/records.toml")

	out = mustRun(t, "-C", docs, "add", "readme.md")
	require.Contains(t, out, "Tracking readme.md at ")
	require.Equal(t, "# Readme\n", readFile(t, root, ".trans/docs/readme.md"))

	out = mustRun(t, "-C", docs, "ls")
	require.Equal(t, "T S -  readme.md\n", out)

	writeFile(t, root, "docs/readme.md", "# Readme\n\nA new paragraph.\n")
	git("commit", "-am", "extend readme")

	out = mustRun(t, "-C", root, "status")
	require.Contains(t, out, "drifted")
	require.Contains(t, out, "docs/readme.md")

	out = mustRun(t, "-C", docs, "show", "unsynced")
	require.Contains(t, out, "readme.md")

	out = mustRun(t, "-C", docs, "diff", "readme.md")
	require.Contains(t, out, "+A new paragraph.")

	out = mustRun(t, "-C", docs, "gendiff", "readme.md")
	require.Contains(t, out, "Wrote .trans/docs/readme.md.diff")
	require.Contains(t, readFile(t, root, ".trans/docs/readme.md.diff"), "+A new paragraph.")

	mustRun(t, "-C", docs, "sync", "readme.md")
	out = mustRun(t, "-C", docs, "show", "unsynced")
	require.Equal(t, "No files are in the unsynced state.\n", out)

	mustRun(t, "-C", docs, "mark", "done", "readme.md")
	mustRun(t, "-C", docs, "lock", "readme.md")
	out = mustRun(t, "-C", docs, "ls")
	require.Equal(t, "D S L  readme.md\n", out)

	writeFile(t, root, ".trans/docs/readme.md", "# 自述\n")
	out = mustRun(t, "-C", root, "cover", "--dry-run")
	require.Contains(t, out, "would copy  docs/readme.md")
	require.Equal(t, "# Readme\n\nA new paragraph.\n", readFile(t, root, "docs/readme.md"))

	mustRun(t, "-C", root, "cover", "--yes", "--quiet")
	require.Equal(t, "# 自述\n", readFile(t, root, "docs/readme.md"))

	mustRun(t, "-C", root, "reset", "--yes")
	require.Equal(t, "# Readme\n\nA new paragraph.\n", readFile(t, root, "docs/readme.md"))
	_, err := os.Stat(filepath.Join(root, "docs", "readme.md.diff"))
	require.True(t, os.IsNotExist(err), "the diff artifact does not exist at HEAD and is removed")

	mustRun(t, "-C", root, "log")

	l, err := ledger.Load(filepath.Join(root, ".trans", "records.toml"), nil)
	require.NoError(t, err)
	require.Len(t, l.Files, 1)
	require.Equal(t, ledger.Done, l.Files[0].Progress)
	require.Equal(t, ledger.Locked, l.Files[0].Lock)
}

func TestCommandErrors(t *testing.T) {
	root, _ := newGitRepo(t)

	_, err := runCLI(t, "-C", root, "add", "docs/readme.md")
	require.ErrorIs(t, err, gittrans.ErrNotInitialized)

	mustRun(t, "-C", root, "init", "de")
	_, err = runCLI(t, "-C", root, "init", "fr")
	require.ErrorIs(t, err, ledger.ErrAlreadyInitialized)

	_, err = runCLI(t, "-C", root, "mark", "finished", "docs/readme.md")
	require.Error(t, err)

	_, err = runCLI(t, "-C", root, "show", "pending")
	require.Error(t, err)

	_, err = runCLI(t, "-C", root, "diff", "docs/readme.md")
	require.ErrorIs(t, err, ledger.ErrNotTracked)

	_, err = runCLI(t, "-C", root, "add", "../outside.md")
	require.Error(t, err)
}

func TestNotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	t.Setenv("GIT_TRANS_NO_INHERIT", "1")

	_, err := runCLI(t, "-C", dir, "ls")
	require.Error(t, err)
	require.True(t, errors.Is(err, vcs.ErrNotARepository), "err = %v", err)
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	require.True(t, strings.HasPrefix(out, "git-trans dev\n"), out)
}

func TestEntryLine(t *testing.T) {
	tests := []struct {
		file ledger.TrackedFile
		want string
	}{
		{ledger.TrackedFile{Progress: ledger.Todo}, "T - -  x.md"},
		{ledger.TrackedFile{Progress: ledger.Review, Synced: true}, "R S -  x.md"},
		{ledger.TrackedFile{Progress: ledger.Done, Synced: true, Lock: ledger.Locked}, "D S L  x.md"},
	}
	for _, tt := range tests {
		if got := entryLine(tt.file, "x.md"); got != tt.want {
			t.Errorf("entryLine(%+v) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "file"); got != "1 file" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(3, "file"); got != "3 files" {
		t.Errorf("plural(3) = %q", got)
	}
}

func TestSetupLogger(t *testing.T) {
	resetFlags()
	var buf bytes.Buffer
	oldErr := stderr
	stderr = &buf
	defer func() { stderr = oldErr }()

	logFormat = "json"
	logger := setupLogger()
	logger.Info("hidden at the default level")
	require.Zero(t, buf.Len())

	verbose = true
	logger = setupLogger()
	logger.Info("shown", "path", "docs/readme.md")
	require.True(t, logger.Enabled(context.Background(), slog.LevelInfo))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "shown", rec["msg"])
	require.Equal(t, "docs/readme.md", rec["path"])

	logLevel = "debug"
	require.True(t, setupLogger().Enabled(context.Background(), slog.LevelDebug))
	resetFlags()
}

func TestSignalHandlerCancel(t *testing.T) {
	ctx, cancel := setupSignalHandler()
	cancel()
	<-ctx.Done()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}
