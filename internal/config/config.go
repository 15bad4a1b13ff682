package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Reports ReportsConfig `mapstructure:"reports" yaml:"reports"`
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level     string `mapstructure:"level" yaml:"level"`
	Format    string `mapstructure:"format" yaml:"format"`
	AddSource bool   `mapstructure:"add_source" yaml:"add_source"`
}

// ReportsConfig configures report storage and the capture bounds.
type ReportsConfig struct {
	Dir            string `mapstructure:"dir" yaml:"dir"`
	IndexPath      string `mapstructure:"index_path" yaml:"index_path"`
	MaxFiles       int    `mapstructure:"max_files" yaml:"max_files"`
	BufferCapacity int    `mapstructure:"buffer_capacity" yaml:"buffer_capacity"`
	MaxFrames      int    `mapstructure:"max_frames" yaml:"max_frames"`
}

// CaptureConfig configures the crash capture subsystem.
type CaptureConfig struct {
	Enabled      bool `mapstructure:"enabled" yaml:"enabled"`
	PanicOnFault bool `mapstructure:"panic_on_fault" yaml:"panic_on_fault"`
	// RecoveryMarker names a file whose presence means an emergency recovery
	// is already in progress; capture is skipped while it exists.
	RecoveryMarker string `mapstructure:"recovery_marker" yaml:"recovery_marker"`
	// RequiredPaths lists content the active session depends on; capture is
	// skipped when any of them is missing.
	RequiredPaths []string `mapstructure:"required_paths" yaml:"required_paths"`
}

// ServerConfig configures the report API server.
type ServerConfig struct {
	Host        string   `mapstructure:"host" yaml:"host"`
	Port        int      `mapstructure:"port" yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// WatchConfig configures the report directory watcher.
type WatchConfig struct {
	Debounce string `mapstructure:"debounce" yaml:"debounce"`
}

// DebounceDuration returns the parsed debounce interval, falling back to the
// default when unset or invalid.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d < 0 {
		return 500 * time.Millisecond
	}
	return d
}

// YAML renders the effective configuration, as printed by `faultline config`.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
