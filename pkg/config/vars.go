package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "uniparq"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/uniparq by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory path for downloaded dumps and
// sidecar files. Returns ~/.local/share/uniparq/data by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "data")
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/uniparq/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// RunsDir returns the directory path that holds per-run reports and
// the run ledger. Returns ~/.local/share/uniparq/runs by default.
func RunsDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "runs")
}

// LedgerPath returns the full path to the run ledger database.
func LedgerPath(homeDir string) string {
	return filepath.Join(RunsDir(homeDir), "runs.sqlite")
}

// ConfigFilePath returns the full path to the uniparq.yaml file.
// Returns ~/.config/uniparq/uniparq.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "uniparq.yaml")
}
