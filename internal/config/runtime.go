package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves DESK_RUNTIME_PATH, relative paths being taken from
// the user's home directory.
func GetRuntimePath() string {
	path := os.Getenv("DESK_RUNTIME_PATH")
	if path == "" {
		path = ".deskpilot"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
