// Package config resolves where tracker keeps its configuration, history
// and assistant profiles, and where a day's log goes by default.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Dir returns the tracker configuration directory.
//
// Resolution:
//   - $TRACKER_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/tracker if set
//   - %AppData%/tracker on Windows
//   - ~/.config/tracker on macOS and Linux
func Dir() string {
	if dir := os.Getenv("TRACKER_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tracker")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "tracker")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tracker")
}

// ConfigPath is the default assistant configuration file.
func ConfigPath() string {
	return inDir("config.json")
}

// HistoryPath is the append-only prompt history shared by all sessions.
func HistoryPath() string {
	return inDir("history")
}

// AssistantsDir holds extra assistant profiles as markdown files.
func AssistantsDir() string {
	return inDir("assistants")
}

// EnvPath is the global env file consulted after .env.local and .env.
func EnvPath() string {
	return inDir("env")
}

// DefaultLogPath names the log file for the given day, relative to the
// working directory: tracker_DD_MM_YYYY.json.
func DefaultLogPath(day time.Time) string {
	return day.Format("tracker_02_01_2006.json")
}

// inDir joins name onto Dir, or returns "" when no directory can be resolved.
func inDir(name string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}
