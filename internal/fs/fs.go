// Package fs resolves local document paths and reads the environment.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// NotAFileError is returned when a document path names something other than a regular file.
type NotAFileError struct {
	Path string
}

func (e *NotAFileError) Error() string {
	return fmt.Sprintf("%s is not a file", e.Path)
}

// CanonicalPath returns the absolute path of the document at path with symlinks
// resolved, so two spellings of the same file compare equal.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", &NotAFileError{Path: path}
	}
	return resolved, nil
}
