package config

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDir_Default(t *testing.T) {
	t.Setenv("TRACKER_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	dir := Dir()
	if dir == "" {
		t.Fatal("Dir() returned empty string")
	}

	if runtime.GOOS != "windows" {
		if filepath.Base(dir) != "tracker" {
			t.Errorf("Dir() = %q, want path ending in 'tracker'", dir)
		}
	}
}

func TestDir_ExplicitOverride(t *testing.T) {
	t.Setenv("TRACKER_CONFIG_HOME", "/custom/path")
	if got := Dir(); got != "/custom/path" {
		t.Errorf("Dir() = %q, want %q", got, "/custom/path")
	}
}

func TestDir_XDGOverride(t *testing.T) {
	t.Setenv("TRACKER_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	if got := Dir(); got != filepath.Join("/xdg/config", "tracker") {
		t.Errorf("Dir() = %q, want %q", got, filepath.Join("/xdg/config", "tracker"))
	}
}

func TestPathsLiveInDir(t *testing.T) {
	t.Setenv("TRACKER_CONFIG_HOME", "/cfg")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", ConfigPath(), filepath.Join("/cfg", "config.json")},
		{"history", HistoryPath(), filepath.Join("/cfg", "history")},
		{"assistants", AssistantsDir(), filepath.Join("/cfg", "assistants")},
		{"env", EnvPath(), filepath.Join("/cfg", "env")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDefaultLogPath(t *testing.T) {
	day := time.Date(2024, 3, 7, 23, 59, 0, 0, time.Local)
	if got := DefaultLogPath(day); got != "tracker_07_03_2024.json" {
		t.Errorf("DefaultLogPath() = %q", got)
	}
}
