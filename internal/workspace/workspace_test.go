package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bianoble/git-trans/internal/vcs"
	"github.com/bianoble/git-trans/internal/vcs/vcstest"
)

func newContext(t *testing.T, prefix string) *Context {
	t.Helper()
	gw := vcstest.New(realTempDir(t))
	gw.PrefixDir = prefix
	loc, err := Locate(context.Background(), gw)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	return loc.Context(Layout{})
}

func TestContextLayout(t *testing.T) {
	gw := vcstest.New(realTempDir(t))
	gw.PrefixDir = "docs/guide/"

	loc, err := Locate(context.Background(), gw)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	c := loc.Context(Layout{TransDir: ".l10n", RecordsFile: "ledger.toml"})

	if c.Prefix != "docs/guide" {
		t.Errorf("prefix = %q", c.Prefix)
	}
	if want := filepath.Join(gw.Root, ".l10n"); c.TransDir != want {
		t.Errorf("trans dir = %q, want %q", c.TransDir, want)
	}
	if want := filepath.Join(gw.Root, ".l10n", "ledger.toml"); c.RecordsPath != want {
		t.Errorf("records = %q, want %q", c.RecordsPath, want)
	}
	if c.RecordsKey() != ".l10n/ledger.toml" {
		t.Errorf("records key = %q", c.RecordsKey())
	}
	if c.ProjectName() != filepath.Base(gw.Root) {
		t.Errorf("project name = %q", c.ProjectName())
	}
	if diff := cmp.Diff([]string{"RepositoryRoot", "Prefix"}, gw.Calls); diff != "" {
		t.Errorf("gateway calls (-want +got):\n%s", diff)
	}
}

func TestLocateNotARepository(t *testing.T) {
	gw := vcstest.New("")
	gw.NotRepo = true
	if _, err := Locate(context.Background(), gw); !errors.Is(err, vcs.ErrNotARepository) {
		t.Fatalf("err = %v, want ErrNotARepository", err)
	}
}

func TestCanonicalize(t *testing.T) {
	c := newContext(t, "docs/")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"relative to prefix", "readme.md", "docs/readme.md", false},
		{"dot segments", "./guide/../readme.md", "docs/readme.md", false},
		{"parent of prefix", "../src/main.go", "src/main.go", false},
		{"backslashes", `guide\intro.md`, "docs/guide/intro.md", false},
		{"absolute inside", filepath.Join(c.Root, "src", "lib.go"), "src/lib.go", false},
		{"escapes root", "../../etc/passwd", "", true},
		{"absolute outside", filepath.Join(filepath.Dir(c.Root), "x.md"), "", true},
		{"root itself", "..", "", true},
		{"side-channel dir", "../.trans/docs/readme.md", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Canonicalize(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Canonicalize(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonicalize(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := c.Canonicalize("../../x"); !errors.Is(err, ErrOutsideRepository) {
		t.Errorf("err = %v, want ErrOutsideRepository", err)
	}
}

func TestCanonicalizeDir(t *testing.T) {
	c := newContext(t, "docs")

	tests := []struct {
		in   string
		want string
	}{
		{"", "docs"},
		{".", "docs"},
		{"..", ""},
		{"guide", "docs/guide"},
		{c.Root, ""},
	}
	for _, tt := range tests {
		got, err := c.CanonicalizeDir(tt.in)
		if err != nil {
			t.Errorf("CanonicalizeDir(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CanonicalizeDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMirrorKeysAndRelative(t *testing.T) {
	c := newContext(t, "docs")

	if got := c.MirrorKey("docs/readme.md"); got != ".trans/docs/readme.md" {
		t.Errorf("MirrorKey = %q", got)
	}
	if got := c.DiffArtifactKey("docs/readme.md"); got != ".trans/docs/readme.md.diff" {
		t.Errorf("DiffArtifactKey = %q", got)
	}
	if !c.InTransDir(".trans") || !c.InTransDir(".trans/a") || c.InTransDir(".transx/a") {
		t.Error("InTransDir boundary mismatch")
	}
	if got := c.Relative("docs/guide/a.md"); got != "guide/a.md" {
		t.Errorf("Relative = %q", got)
	}
	if got := c.Relative("src/a.go"); got != "../src/a.go" {
		t.Errorf("Relative = %q", got)
	}
}

func TestWalkMirror(t *testing.T) {
	c := newContext(t, "")
	for _, key := range []string{"a/b.txt", "records.toml", "docs/readme.md", "docs/readme.md.diff", "nested/records.toml"} {
		p := filepath.Join(c.TransDir, filepath.FromSlash(key))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(key), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := c.WalkMirror(nil)
	if err != nil {
		t.Fatalf("WalkMirror: %v", err)
	}
	var keys []string
	for _, f := range files {
		keys = append(keys, f.Key)
		if f.Source != filepath.Join(c.TransDir, filepath.FromSlash(f.Key)) {
			t.Errorf("source for %s = %q", f.Key, f.Source)
		}
	}
	// Only the top-level ledger document is skipped.
	want := []string{"a/b.txt", "docs/readme.md", "docs/readme.md.diff", "nested/records.toml"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("WalkMirror keys (-want +got):\n%s", diff)
	}

	files, err = c.WalkMirror([]string{"*.diff", "nested/*"})
	if err != nil {
		t.Fatal(err)
	}
	keys = keys[:0]
	for _, f := range files {
		keys = append(keys, f.Key)
	}
	if diff := cmp.Diff([]string{"a/b.txt", "docs/readme.md"}, keys); diff != "" {
		t.Errorf("WalkMirror with excludes (-want +got):\n%s", diff)
	}
}

func TestWalkMirrorMissingDir(t *testing.T) {
	c := newContext(t, "")
	_, err := c.WalkMirror(nil)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want *IOError", err)
	}
}

func TestLocateThenLayout(t *testing.T) {
	gw := vcstest.New(realTempDir(t))
	gw.PrefixDir = "/docs/"

	loc, err := Locate(context.Background(), gw)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if loc.Prefix != "docs" {
		t.Errorf("prefix = %q", loc.Prefix)
	}

	c := loc.Context(Layout{TransDir: "l10n"})
	if c.RecordsKey() != "l10n/records.toml" {
		t.Errorf("records key = %q", c.RecordsKey())
	}
	if len(gw.Calls) != 2 {
		t.Errorf("calls = %v, want one root and one prefix query", gw.Calls)
	}
}
