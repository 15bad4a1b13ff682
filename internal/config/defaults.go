package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultStateDir is the project-local directory for reports and the index.
const DefaultStateDir = ".faultline"

// DefaultConfigYAML contains the default configuration YAML content, written
// by `faultline init`.
const DefaultConfigYAML = `# Faultline configuration
#
# Values not specified here use sensible defaults.

log:
  # debug | info | warn | error
  level: info
  # auto (pretty on a TTY, JSON otherwise) | text | json
  format: auto

reports:
  dir: .faultline/reports
  index_path: .faultline/faultline.db
  # Oldest reports beyond this count are pruned after each capture.
  max_files: 10
  # Capture buffer size in bytes; sections past this bound are truncated.
  buffer_capacity: 65536
  # Stack frames captured per report.
  max_frames: 64

capture:
  enabled: true
  # Turn memory faults on prepared goroutines into captured reports.
  panic_on_fault: true
  # Path of a marker file; while it exists, capture is skipped because an
  # emergency recovery is already in progress.
  recovery_marker: ""
  # Content the session depends on; capture is skipped when any is missing.
  required_paths: []

server:
  host: 127.0.0.1
  port: 8321
  cors_origins: ["*"]

watch:
  debounce: 500ms
`

// UserConfigPath returns the per-user configuration path, the lowest
// precedence file the loader consults.
func UserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "faultline", "config.yaml"), nil
}

// EnsureUserConfigFile creates the per-user configuration file from the
// defaults when it does not exist yet.
func EnsureUserConfigFile() (string, error) {
	path, err := UserConfigPath()
	if err != nil {
		return "", err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		return path, nil
	} else if !os.IsNotExist(statErr) {
		return "", fmt.Errorf("checking user config: %w", statErr)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("creating user config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultConfigYAML), 0o600); err != nil {
		return "", fmt.Errorf("creating user config: %w", err)
	}
	return path, nil
}
