package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoader_Defaults(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify log defaults
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.Format != "auto" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "auto")
	}

	// Verify reports defaults
	if cfg.Reports.Dir != filepath.Join(DefaultStateDir, "reports") {
		t.Errorf("Reports.Dir = %q, want %q", cfg.Reports.Dir, filepath.Join(DefaultStateDir, "reports"))
	}
	if cfg.Reports.MaxFiles != 10 {
		t.Errorf("Reports.MaxFiles = %d, want %d", cfg.Reports.MaxFiles, 10)
	}
	if cfg.Reports.BufferCapacity != 64*1024 {
		t.Errorf("Reports.BufferCapacity = %d, want %d", cfg.Reports.BufferCapacity, 64*1024)
	}
	if cfg.Reports.MaxFrames != 64 {
		t.Errorf("Reports.MaxFrames = %d, want %d", cfg.Reports.MaxFrames, 64)
	}

	// Verify capture defaults
	if !cfg.Capture.Enabled {
		t.Error("Capture.Enabled = false, want true (default)")
	}
	if !cfg.Capture.PanicOnFault {
		t.Error("Capture.PanicOnFault = false, want true (default)")
	}
	if cfg.Capture.RecoveryMarker != "" {
		t.Errorf("Capture.RecoveryMarker = %q, want empty (no default)", cfg.Capture.RecoveryMarker)
	}
	if len(cfg.Capture.RequiredPaths) != 0 {
		t.Errorf("Capture.RequiredPaths = %v, want empty", cfg.Capture.RequiredPaths)
	}

	// Verify server defaults
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8321 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8321)
	}

	// Verify watch defaults
	if cfg.Watch.Debounce != "500ms" {
		t.Errorf("Watch.Debounce = %q, want %q", cfg.Watch.Debounce, "500ms")
	}
	if cfg.Watch.DebounceDuration() != 500*time.Millisecond {
		t.Errorf("Watch.DebounceDuration() = %v, want %v", cfg.Watch.DebounceDuration(), 500*time.Millisecond)
	}
}

func TestLoader_EnvOverride(t *testing.T) {
	os.Setenv("FAULTLINE_LOG_LEVEL", "debug")
	os.Setenv("FAULTLINE_REPORTS_MAX_FILES", "25")
	os.Setenv("FAULTLINE_CAPTURE_ENABLED", "false")
	defer func() {
		os.Unsetenv("FAULTLINE_LOG_LEVEL")
		os.Unsetenv("FAULTLINE_REPORTS_MAX_FILES")
		os.Unsetenv("FAULTLINE_CAPTURE_ENABLED")
	}()

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Reports.MaxFiles != 25 {
		t.Errorf("Reports.MaxFiles = %d, want %d", cfg.Reports.MaxFiles, 25)
	}
	if cfg.Capture.Enabled {
		t.Error("Capture.Enabled = true, want false (env override)")
	}
}

func TestLoader_MissingConfig(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil (should use defaults)", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q (default)", cfg.Log.Level, "info")
	}
}

func TestLoader_ConfigFileOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
log:
  level: warn
  format: json
reports:
  dir: /var/lib/faultline/reports
  max_files: 50
capture:
  recovery_marker: /run/myapp/recovering
  required_paths:
    - /opt/myapp/assets
server:
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	loader := NewLoader().WithConfigFile(configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Reports.Dir != "/var/lib/faultline/reports" {
		t.Errorf("Reports.Dir = %q, want %q", cfg.Reports.Dir, "/var/lib/faultline/reports")
	}
	if cfg.Reports.MaxFiles != 50 {
		t.Errorf("Reports.MaxFiles = %d, want %d", cfg.Reports.MaxFiles, 50)
	}
	if cfg.Capture.RecoveryMarker != "/run/myapp/recovering" {
		t.Errorf("Capture.RecoveryMarker = %q, want %q", cfg.Capture.RecoveryMarker, "/run/myapp/recovering")
	}
	if len(cfg.Capture.RequiredPaths) != 1 || cfg.Capture.RequiredPaths[0] != "/opt/myapp/assets" {
		t.Errorf("Capture.RequiredPaths = %v, want [/opt/myapp/assets]", cfg.Capture.RequiredPaths)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9000)
	}

	// Untouched keys keep their defaults.
	if cfg.Reports.MaxFrames != 64 {
		t.Errorf("Reports.MaxFrames = %d, want %d (default)", cfg.Reports.MaxFrames, 64)
	}
}

func TestLoader_Precedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	// Config file sets level to "warn"
	configContent := `
log:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	// Environment sets level to "debug" (should override file)
	os.Setenv("FAULTLINE_LOG_LEVEL", "debug")
	defer os.Unsetenv("FAULTLINE_LOG_LEVEL")

	loader := NewLoader().WithConfigFile(configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q (env should override file)", cfg.Log.Level, "debug")
	}
}

func TestLoader_InvalidConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid-config.yaml")

	invalidContent := `
log:
  level: [invalid yaml
`
	if err := os.WriteFile(configPath, []byte(invalidContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	loader := NewLoader().WithConfigFile(configPath)
	_, err := loader.Load()
	if err == nil {
		t.Error("Load() with invalid config should return error")
	}
}

func TestLoader_ConfigFileUsed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `log:
  level: info
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	loader := NewLoader().WithConfigFile(configPath)
	_, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	usedFile := loader.ConfigFile()
	if usedFile != configPath {
		t.Errorf("ConfigFile() = %q, want %q", usedFile, configPath)
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.v == nil {
		t.Error("NewLoader() viper instance is nil")
	}
	if loader.envPrefix != "FAULTLINE" {
		t.Errorf("NewLoader() envPrefix = %q, want %q", loader.envPrefix, "FAULTLINE")
	}
}

func TestLoader_WithEnvPrefix(t *testing.T) {
	os.Setenv("CUSTOM_LOG_LEVEL", "error")
	defer os.Unsetenv("CUSTOM_LOG_LEVEL")

	loader := NewLoader().WithEnvPrefix("CUSTOM")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "error")
	}
}

func TestLoader_DefaultYAMLIsValid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(DefaultConfigYAML), 0o644); err != nil {
		t.Fatalf("Failed to write default config: %v", err)
	}

	loader := NewLoader().WithConfigFile(configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig() error = %v, default config should be valid", err)
	}

	// The shipped defaults match the programmatic ones.
	if cfg.Reports.BufferCapacity != 64*1024 {
		t.Errorf("Reports.BufferCapacity = %d, want %d", cfg.Reports.BufferCapacity, 64*1024)
	}
	if cfg.Reports.MaxFrames != 64 {
		t.Errorf("Reports.MaxFrames = %d, want %d", cfg.Reports.MaxFrames, 64)
	}
}

func TestConfig_YAML(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}

	for _, want := range []string{"log:", "reports:", "capture:", "server:", "watch:", "level: info"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("YAML() output missing %q:\n%s", want, out)
		}
	}
}

func TestWatchConfig_DebounceFallback(t *testing.T) {
	cfg := WatchConfig{Debounce: "not-a-duration"}
	if got := cfg.DebounceDuration(); got != 500*time.Millisecond {
		t.Errorf("DebounceDuration() = %v, want fallback %v", got, 500*time.Millisecond)
	}
}
