package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/simplemath/internal/safety"
)

// WriteFile writes content to a path relative to the sandbox root, creating
// parent directories as needed. The write goes through a temp file and rename.
func (s *Sandbox) WriteFile(relPath, content string) error {
	absPath, err := safety.ValidateWritePath(s.root, relPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), absPath)
}
