package fsops

import (
	"os"

	"github.com/petasbytes/simplemath/internal/safety"
)

// ReadFile reads a file addressed by a path relative to the sandbox root.
// Policy violations are returned as safety.PathError.
func (s *Sandbox) ReadFile(relPath string) (string, error) {
	absPath, err := safety.ValidateRelPath(s.root, relPath)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", safety.PathError{Code: safety.CodeNotAFile, Message: "path is a directory"}
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
