package config

import (
	"os"
	"path/filepath"
)

// FileName is the configuration file looked up in SearchPaths.
const FileName = "heartbeat.toml"

// SearchPaths returns the directories searched for heartbeat.toml when no
// --config flag is given: the working directory, then $HOME/.heartbeat.
func SearchPaths() []string {
	paths := []string{"."}
	if dir := DefaultConfigDir(); dir != "" {
		paths = append(paths, dir)
	}
	return paths
}

// DefaultConfigDir returns $HOME/.heartbeat, or "" if the home directory
// cannot be determined. The directory is not created.
func DefaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".heartbeat")
}

// FindConfigFile returns the first regular FileName found in SearchPaths,
// or "" when there is none.
func FindConfigFile() string {
	for _, dir := range SearchPaths() {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}
