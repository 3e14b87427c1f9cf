package shared

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "linuxcloudsync"

// ConfigDir returns the per-user configuration directory, creating it with
// 0700 permissions if needed. Honors XDG_CONFIG_HOME.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}

	dir := filepath.Join(base, appDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	// MkdirAll leaves existing directories untouched
	_ = os.Chmod(dir, 0o700)

	return dir, nil
}

// RcloneConfigPath returns the managed rclone.conf location.
func RcloneConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rclone.conf"), nil
}

// LogsDir returns the log directory, creating it if needed.
func LogsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	logs := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logs, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return logs, nil
}

// BisyncWorkdir returns the bisync working directory, creating it if needed.
// rclone keeps its baseline listings and lock files here.
func BisyncWorkdir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	workdir := filepath.Join(dir, "bisync")
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bisync workdir: %w", err)
	}
	return workdir, nil
}

// ProfilesPath returns the location of the profiles.json store.
func ProfilesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles.json"), nil
}

// LastProfilePath returns the location of the last-used profile marker file.
func LastProfilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "last_profile.txt"), nil
}

// HistoryDBPath returns the default sync history database location.
func HistoryDBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
