package model

import (
	"os"
	"path/filepath"
)

// defaultCacheDir resolves the on-disk cache location, falling back to a
// relative directory when the home directory is unavailable.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".helix-cache"
	}
	return filepath.Join(home, ".helix", "cache")
}
