package store

import (
	"os"
	"path/filepath"
)

// DefaultDBPath is mathdrill.db under $XDG_DATA_HOME, falling back to
// ~/.local/share and then the working directory.
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(dataHome, "mathdrill", "mathdrill.db")
}
