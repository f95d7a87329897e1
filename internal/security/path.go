package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFilePath rejects empty paths and paths that climb out of their
// directory with "..". Absolute paths are accepted.
func ValidateFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: file path cannot be empty", ErrInvalidArgument)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: file path contains a NUL byte", ErrInvalidArgument)
	}

	for _, segment := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if segment == ".." {
			return fmt.Errorf("%w: path contains directory traversal: %s", ErrInvalidArgument, path)
		}
	}
	return nil
}
