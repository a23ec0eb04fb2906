package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	DefaultHistoryBackend = "file"

	DefaultRenderTimeout = 45 * time.Second
	DefaultWaitStable    = 2 * time.Second

	DefaultSMTPPort = 587

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rentwatch"
	}
	return filepath.Join(home, ".rentwatch")
}

// DefaultHistoryPath returns the file backend's default location
func DefaultHistoryPath() string {
	return filepath.Join(ConfigDir(), "history.jsonl")
}

// DefaultHistoryDir returns the badger backend's default location
func DefaultHistoryDir() string {
	return filepath.Join(ConfigDir(), "history")
}

// DefaultPlansFile returns the default tracked-plans file location
func DefaultPlansFile() string {
	return filepath.Join(ConfigDir(), "plans.yaml")
}
