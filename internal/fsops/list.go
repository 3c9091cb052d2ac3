package fsops

import (
	"os"

	"github.com/petasbytes/simplemath/internal/safety"
)

// ListFiles returns the non-recursive entries of relDir, directories suffixed by "/".
func (s *Sandbox) ListFiles(relDir string) ([]string, error) {
	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(s.root, relDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names, nil
}
