package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bianoble/git-trans/internal/ledger"
	"github.com/bianoble/git-trans/internal/vcs/vcstest"
	"github.com/bianoble/git-trans/internal/workspace"
)

type fixture struct {
	gw     *vcstest.Fake
	ws     *workspace.Context
	ledger *ledger.Ledger
}

// newFixture builds a workspace over a fake repository whose first commit
// contains docs/readme.md, and a ledger tracking that file.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	gw := vcstest.New(root)
	gw.Commit("rev1", map[string]string{"docs/readme.md": "hello\n"})

	loc, err := workspace.Locate(context.Background(), gw)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	ws := loc.Context(workspace.Layout{})

	l, err := ledger.Init(context.Background(), gw, "project", "zh-CN", ledger.CurrentTag, time.Now())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := l.Add(context.Background(), gw, "docs/readme.md", false); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return &fixture{gw: gw, ws: ws, ledger: l}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}
