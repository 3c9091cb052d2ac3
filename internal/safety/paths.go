// Package safety confines file access to a sandbox directory.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Policy error codes.
const (
	CodeOutsideSandbox = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeDeniedRead     = "ERR_DENIED_READ"
	CodeDeniedWrite    = "ERR_DENIED_WRITE"
	CodeNotAFile       = "ERR_NOT_A_FILE"
)

// StateDir is the application state directory; it is never reachable through the sandbox.
const StateDir = ".simplemath"

// PathError is a machine-readable policy violation.
type PathError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string.
func (e PathError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// ResolveRoot returns the absolute, symlink-resolved form of root.
// An empty root means the working directory.
func ResolveRoot(root string) (string, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		root = cwd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("abs(root): %w", err)
	}
	// Fall back to the absolute path when the root does not exist yet.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	return abs, nil
}

// resolve joins relPath to absRoot and checks the result stays inside it.
func resolve(absRoot, relPath string) (string, string, error) {
	if filepath.IsAbs(relPath) {
		return "", "", PathError{Code: CodeOutsideSandbox, Message: "absolute paths are not allowed"}
	}
	cleaned := filepath.Clean(relPath)
	candidate := filepath.Join(absRoot, cleaned)

	// Resolve the whole candidate if it exists, otherwise its parent, so a
	// symlinked ancestor cannot point outside the root.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if resolvedParent, err := filepath.EvalSymlinks(filepath.Dir(candidate)); err == nil {
		candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
	}

	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", "", PathError{Code: CodeOutsideSandbox, Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(rel), nil
}

func under(rel, dir string) bool {
	return rel == dir || strings.HasPrefix(rel, dir+"/")
}

// ValidateRelPath resolves relPath for reading. It rejects absolute inputs,
// parent traversal, symlink escapes and anything under .git/ or the state dir.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	abs, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if under(rel, ".git") || under(rel, StateDir) {
		return "", PathError{Code: CodeDeniedRead, Message: "reads under .git/ or " + StateDir + "/ are not allowed"}
	}
	return abs, nil
}

// ValidateWritePath resolves relPath for writing. On top of the read rules it
// only allows .html and .js files.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	abs, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if under(rel, ".git") || under(rel, StateDir) {
		return "", PathError{Code: CodeDeniedWrite, Message: "writes under .git/ or " + StateDir + "/ are not allowed"}
	}
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".html", ".js":
		return abs, nil
	default:
		return "", PathError{Code: CodeDeniedWrite, Message: "only .html and .js files may be written"}
	}
}
