package safety_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/petasbytes/simplemath/internal/safety"
)

func resolvedTempDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	// Normalize root to avoid /var vs /private/var mismatches on macOS
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	return root
}

func TestValidateRelPath_BasicRejections(t *testing.T) {
	root := t.TempDir()

	abs, err := filepath.Abs(".")
	if err != nil {
		t.Skipf("cannot compute absolute path: %v", err)
	}
	if _, err := safety.ValidateRelPath(root, abs); err == nil {
		t.Fatal("expected error for absolute path")
	}
	if _, err := safety.ValidateRelPath(root, "../../x"); err == nil {
		t.Fatal("expected error for parent traversal")
	}
}

func TestValidateRelPath_ReadDenylist(t *testing.T) {
	root := t.TempDir()
	_ = os.Mkdir(filepath.Join(root, ".simplemath"), 0o755)
	_ = os.Mkdir(filepath.Join(root, ".git"), 0o755)

	for _, p := range []string{".simplemath/events.jsonl", ".git/HEAD"} {
		_, err := safety.ValidateRelPath(root, p)
		var pe safety.PathError
		if !errors.As(err, &pe) || pe.Code != safety.CodeDeniedRead {
			t.Fatalf("expected %s for %q, got %v", safety.CodeDeniedRead, p, err)
		}
	}
}

func TestValidateRelPath_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	if runtime.GOOS == "windows" {
		t.Skip("symlink test skipped on Windows")
	}
	if err := os.Symlink(outside, filepath.Join(root, "out")); err != nil {
		t.Skipf("symlink not allowed on this FS: %v", err)
	}
	if _, err := safety.ValidateRelPath(root, "out/escape.html"); err == nil {
		t.Fatal("expected reject for symlink escape")
	}
}

func TestValidateWritePath_Denied(t *testing.T) {
	root := t.TempDir()
	_ = os.Mkdir(filepath.Join(root, ".git"), 0o755)

	cases := []struct {
		name string
		rel  string
		code string
	}{
		{"git config", ".git/config.html", safety.CodeDeniedWrite},
		{"state dir", ".simplemath/page.html", safety.CodeDeniedWrite},
		{"not html", "notes.txt", safety.CodeDeniedWrite},
		{"go.mod", "go.mod", safety.CodeDeniedWrite},
		{"traversal", "../escape.html", safety.CodeOutsideSandbox},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := safety.ValidateWritePath(root, tc.rel)
			if err == nil || !strings.Contains(err.Error(), tc.code) {
				t.Fatalf("expected %s for %q, got %v", tc.code, tc.rel, err)
			}
		})
	}
}

func TestValidateWritePath_SymlinkEscapeOnNewFile(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Skip("symlink test skipped on Windows")
	}
	if err := os.Symlink(outside, filepath.Join(root, "out")); err != nil {
		t.Skipf("symlink not allowed on this FS: %v", err)
	}
	if _, err := safety.ValidateWritePath(root, "out/new.html"); err == nil || !strings.Contains(err.Error(), safety.CodeOutsideSandbox) {
		t.Fatalf("expected %s, got %v", safety.CodeOutsideSandbox, err)
	}
}

func TestValidateWritePath_AllowNormal(t *testing.T) {
	root := resolvedTempDir(t)
	_ = os.MkdirAll(filepath.Join(root, "sub"), 0o755)

	p, err := safety.ValidateWritePath(root, "sub/anim.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p, root+string(filepath.Separator)) {
		t.Fatalf("resolved path %q not under root %q", p, root)
	}
}

func TestResolveRoot_Absolute(t *testing.T) {
	got, err := safety.ResolveRoot("")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute root, got %q", got)
	}
}
