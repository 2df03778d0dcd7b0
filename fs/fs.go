package fs

import (
	"io"
	"os"
	"path/filepath"
)

// DefaultConfigDir returns the default config directory for hunkstage.
// Uses XDG_CONFIG_HOME if set, otherwise falls back to ~/.config/hunkstage.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hunkstage")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hunkstage")
}

// DefaultConfigPath returns the config file read when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// ReadInput reads the file at path, or stdin when path is "-" or empty.
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
