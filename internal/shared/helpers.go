// Package shared provides small helpers used by more than one adapter.
package shared

import (
	"fmt"
	"os"
	"path/filepath"
)

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DetectPackageManager guesses the package manager of a project directory
// from its lock file.
func DetectPackageManager(dir string) string {
	switch {
	case FileExists(filepath.Join(dir, "bun.lockb")), FileExists(filepath.Join(dir, "bun.lock")):
		return "bun"
	case FileExists(filepath.Join(dir, "pnpm-lock.yaml")):
		return "pnpm"
	case FileExists(filepath.Join(dir, "yarn.lock")):
		return "yarn"
	default:
		return "npm"
	}
}
