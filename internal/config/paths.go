package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the promptproxy data directory.
// - Windows: %APPDATA%\promptproxy
// - Other OS: ~/.promptproxy
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "promptproxy")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptproxy"
	}
	return filepath.Join(home, ".promptproxy")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
