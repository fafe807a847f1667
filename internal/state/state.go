// Package state manages the tasktray data directory structure.
package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Names inside the data directory.
const (
	LogsDir = "logs"
	LogFile = "tasktray.log"
)

// LogsDirPath returns the path to the logs directory.
func LogsDirPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDir)
}

// LogFilePath returns the path to the log file used while the widget owns
// the terminal.
func LogFilePath(dataDir string) string {
	return filepath.Join(dataDir, LogsDir, LogFile)
}

// EnsureDataDir creates the data directory structure if it doesn't exist.
// It creates the following directories:
//   - <dataDir>/
//   - <dataDir>/logs/
//
// The function is idempotent. Directories are created with 0755
// permissions.
func EnsureDataDir(dataDir string) error {
	if dataDir == "" {
		return fmt.Errorf("data directory is not set")
	}

	dirs := []string{
		dataDir,
		LogsDirPath(dataDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// OpenLogFile opens the log file for appending, creating the directory
// structure first.
func OpenLogFile(dataDir string) (*os.File, error) {
	if err := EnsureDataDir(dataDir); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(LogFilePath(dataDir), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
