package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateReports(&cfg.Reports)
	v.validateCapture(&cfg.Capture)
	v.validateServer(&cfg.Server)
	v.validateWatch(&cfg.Watch)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateReports(cfg *ReportsConfig) {
	if cfg.Dir == "" {
		v.addError("reports.dir", cfg.Dir, "directory required")
	} else if !isValidPath(cfg.Dir) {
		v.addError("reports.dir", cfg.Dir, "invalid directory path")
	}

	if cfg.IndexPath == "" {
		v.addError("reports.index_path", cfg.IndexPath, "path required")
	} else if !isValidPath(cfg.IndexPath) {
		v.addError("reports.index_path", cfg.IndexPath, "invalid file path")
	}

	if cfg.MaxFiles <= 0 {
		v.addError("reports.max_files", cfg.MaxFiles, "must be positive")
	}

	if cfg.BufferCapacity <= 0 {
		v.addError("reports.buffer_capacity", cfg.BufferCapacity, "must be positive")
	}

	if cfg.MaxFrames <= 0 || cfg.MaxFrames > 512 {
		v.addError("reports.max_frames", cfg.MaxFrames, "must be between 1 and 512")
	}
}

func (v *Validator) validateCapture(cfg *CaptureConfig) {
	if cfg.RecoveryMarker != "" && !isValidPath(cfg.RecoveryMarker) {
		v.addError("capture.recovery_marker", cfg.RecoveryMarker, "invalid file path")
	}

	for _, path := range cfg.RequiredPaths {
		if strings.TrimSpace(path) == "" {
			v.addError("capture.required_paths", path, "path cannot be empty")
		}
	}
}

func (v *Validator) validateServer(cfg *ServerConfig) {
	if cfg.Host == "" {
		v.addError("server.host", cfg.Host, "host required")
	} else if net.ParseIP(cfg.Host) == nil && cfg.Host != "localhost" {
		v.addError("server.host", cfg.Host, "must be an IP address or localhost")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		v.addError("server.port", cfg.Port, "must be between 1 and 65535")
	}
}

func (v *Validator) validateWatch(cfg *WatchConfig) {
	if _, err := time.ParseDuration(cfg.Debounce); err != nil {
		v.addError("watch.debounce", cfg.Debounce, "invalid duration format")
	}
}

func isValidPath(path string) bool {
	dir := filepath.Dir(path)
	_, err := os.Stat(dir)
	return err == nil || os.IsNotExist(err)
}

// ValidateConfig is a convenience function that creates a validator and validates config.
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
