package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "FAULTLINE",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "FAULTLINE",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (FAULTLINE_*)
// 3. Project config (.faultline.yaml in current directory)
// 4. User config (~/.config/faultline/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	switch {
	case l.configFile != "":
		l.v.SetConfigFile(l.configFile)
	default:
		l.v.SetConfigName(".faultline")
		l.v.SetConfigType("yaml")
		// Project config takes precedence over user config.
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "faultline"))
		}
	}

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	err := l.v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	// Log defaults
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")
	l.v.SetDefault("log.add_source", false)

	// Report storage defaults (unified under .faultline/)
	l.v.SetDefault("reports.dir", filepath.Join(DefaultStateDir, "reports"))
	l.v.SetDefault("reports.index_path", filepath.Join(DefaultStateDir, "faultline.db"))
	l.v.SetDefault("reports.max_files", 10)
	l.v.SetDefault("reports.buffer_capacity", 64*1024)
	l.v.SetDefault("reports.max_frames", 64)

	// Capture defaults
	l.v.SetDefault("capture.enabled", true)
	l.v.SetDefault("capture.panic_on_fault", true)
	l.v.SetDefault("capture.recovery_marker", "")
	l.v.SetDefault("capture.required_paths", []string{})

	// Server defaults
	l.v.SetDefault("server.host", "127.0.0.1")
	l.v.SetDefault("server.port", 8321)
	l.v.SetDefault("server.cors_origins", []string{"*"})

	// Watcher defaults
	l.v.SetDefault("watch.debounce", "500ms")
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}
