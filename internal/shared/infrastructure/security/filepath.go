// Package security validates filesystem paths taken from configuration.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbiddenChars are shell metacharacters never expected in a database path.
const forbiddenChars = ";&|$`(){}<>!\n\r"

// ErrUnsafePath is returned for paths that are empty or contain forbidden characters.
var ErrUnsafePath = errors.New("unsafe file path")

// CleanPath returns path cleaned, made absolute and, when it already
// exists, resolved through symlinks. A file that does not exist yet is
// fine; its cleaned absolute path is returned.
func CleanPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafePath)
	}
	if i := strings.IndexAny(path, forbiddenChars); i >= 0 {
		return "", fmt.Errorf("%w: forbidden character %q in %s", ErrUnsafePath, path[i], path)
	}

	clean, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(clean)
	if errors.Is(err, os.ErrNotExist) {
		return clean, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// CleanPathInDir is CleanPath plus a check that the result stays under baseDir.
func CleanPathInDir(path, baseDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("%w: empty base directory", ErrUnsafePath)
	}
	clean, err := CleanPath(path)
	if err != nil {
		return "", err
	}
	base, err := CleanPath(baseDir)
	if err != nil {
		return "", err
	}

	if clean != base && !strings.HasPrefix(clean, base+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes %s", ErrUnsafePath, path, baseDir)
	}
	return clean, nil
}
