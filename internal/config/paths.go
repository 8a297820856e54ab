// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GlobalDirName is the directory under $HOME holding daemon state and settings.
const GlobalDirName = ".agentroom"

// DirEnv overrides the global directory location when set.
const DirEnv = "AGENTROOM_DIR"

// Entries of the global directory.
const (
	DaemonFileName    = "daemon.yaml"
	SettingsFileName  = "settings.yaml"
	LogsDirName       = "logs"
	DaemonLogFileName = "agentroomd.log"
)

// GlobalDir returns the global agentroom directory: $AGENTROOM_DIR if set,
// otherwise ~/.agentroom.
func GlobalDir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return ExpandHome(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalPath(elem ...string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// GlobalDaemonFile returns the path of daemon.yaml.
func GlobalDaemonFile() (string, error) { return globalPath(DaemonFileName) }

// GlobalSettingsFile returns the path of settings.yaml.
func GlobalSettingsFile() (string, error) { return globalPath(SettingsFileName) }

// GlobalLogsDir returns the logs directory.
func GlobalLogsDir() (string, error) { return globalPath(LogsDirName) }

// DaemonLogFile returns the path the background daemon writes its log to.
func DaemonLogFile() (string, error) { return globalPath(LogsDirName, DaemonLogFileName) }

// EnsureGlobalDir creates the global directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// EnsureGlobalLogsDir creates the logs directory if it doesn't exist.
func EnsureGlobalLogsDir() error {
	dir, err := GlobalLogsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
