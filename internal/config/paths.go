package config

import (
	"os"
	"path/filepath"
)

// EnvHome overrides the data directory
const EnvHome = "DAILYUP_HOME"

// GetHome returns $DAILYUP_HOME or the ~/.dailyup default
func GetHome() string {
	home := os.Getenv(EnvHome)
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".dailyup"
		}
		return filepath.Join(homeDir, ".dailyup")
	}
	return ExpandPath(home)
}

// GetDBPath returns $DAILYUP_HOME/state.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "state.db")
}

// GetSettingsPath returns $DAILYUP_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// GetKeyPath returns $DAILYUP_HOME/session.key, the sealing key for persisted sessions
func GetKeyPath() string {
	return filepath.Join(GetHome(), "session.key")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
