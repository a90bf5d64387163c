// Package paths resolves configuration and data directory locations for the
// ledgerbook engine, including the per-database file mapping and the backup
// snapshot directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "LEDGERBOOK_CONFIG_DIR"
	EnvDataDir   = "LEDGERBOOK_DATA_DIR"
)

// BackupDirName is the subdirectory of the data directory holding backup
// snapshot files.
const BackupDirName = "backups"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/ledgerbook (fallback ~/.config/ledgerbook)
// macOS:   ~/Library/Application Support/ledgerbook
// Windows: %APPDATA%/ledgerbook
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ledgerbook"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "ledgerbook"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "ledgerbook"), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory, the
// app-private document directory that holds database files, the registry,
// the backup log, and backup snapshots.
//
// Linux:   $XDG_DATA_HOME/ledgerbook (fallback ~/.local/share/ledgerbook)
// macOS:   ~/Library/Application Support/ledgerbook
// Windows: %APPDATA%/ledgerbook
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "ledgerbook"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "ledgerbook"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "ledgerbook"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > LEDGERBOOK_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue > LEDGERBOOK_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// DatabasePath maps a database file identifier to its location inside the
// data directory.
func DatabasePath(dataDir, fileID string) string {
	return filepath.Join(dataDir, fileID)
}

// BackupDir returns the backup snapshot directory inside the data directory.
func BackupDir(dataDir string) string {
	return filepath.Join(dataDir, BackupDirName)
}
