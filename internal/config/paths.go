package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "kweeb"

// DataDir returns the per-user directory holding the database, device id
// and log file.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}

	switch runtime.GOOS {
	case "darwin", "windows":
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, appName)
		}
	default:
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "share", appName)
		}
	}
	return filepath.Join(os.TempDir(), appName)
}

func configDirs() []string {
	dirs := make([]string, 0, 2)
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, appName))
	}
	if runtime.GOOS != "windows" {
		dirs = append(dirs, filepath.Join("/etc", appName))
	}
	return dirs
}
