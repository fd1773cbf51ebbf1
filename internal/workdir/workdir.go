// Package workdir locates the per-user data directory for the breathe CLI.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root returns the base directory for breathbox data files:
//
//	$HOME/.breathbox
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".breathbox"), nil
}

// DBPath returns the default path for the stats/preferences database.
func DBPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "breathbox.db"), nil
}

// Prep ensures the data directory exists.
func Prep() error {
	root, err := Root()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", root, err)
	}

	return nil
}
