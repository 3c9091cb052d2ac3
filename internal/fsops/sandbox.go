// Package fsops reads, writes and lists files inside a safety sandbox.
package fsops

import (
	"fmt"
	"os"

	"github.com/petasbytes/simplemath/internal/safety"
)

// Sandbox performs file operations relative to a fixed root.
type Sandbox struct {
	root string
}

// New creates root if needed and returns a sandbox over it.
func New(root string) (*Sandbox, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create sandbox root: %w", err)
		}
	}
	abs, err := safety.ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	return &Sandbox{root: abs}, nil
}

// Root returns the absolute sandbox root.
func (s *Sandbox) Root() string { return s.root }
