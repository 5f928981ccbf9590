package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Main SQLite database
	Logs     string // Log directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "versetag.db"),
		Logs:     filepath.Join(cfg.BaseDir, "logs"),
	}
}

// DefaultBaseDir returns the default base directory under the platform
// data home (e.g. ~/.local/share/versetag on Linux).
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "versetag")
}
