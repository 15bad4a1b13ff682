package config

import (
	"strings"
	"testing"
)

// validConfig returns a valid configuration for testing.
func validConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Reports: ReportsConfig{
			Dir:            ".faultline/reports",
			IndexPath:      ".faultline/faultline.db",
			MaxFiles:       10,
			BufferCapacity: 64 * 1024,
			MaxFrames:      64,
		},
		Capture: CaptureConfig{
			Enabled:      true,
			PanicOnFault: true,
		},
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8321,
			CORSOrigins: []string{"*"},
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
	}
}

func TestValidator_ValidConfig(t *testing.T) {
	cfg := validConfig()
	v := NewValidator()
	err := v.Validate(cfg)
	if err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidator_InvalidLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "invalid"

	v := NewValidator()
	err := v.Validate(cfg)
	if err == nil {
		t.Error("Validate() error = nil, want error for invalid log level")
	}

	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}

	found := false
	for _, e := range errs {
		if e.Field == "log.level" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected error for log.level field")
	}
}

func TestValidator_InvalidFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Format = "invalid"

	v := NewValidator()
	err := v.Validate(cfg)
	if err == nil {
		t.Error("Validate() error = nil, want error for invalid log format")
	}

	if !strings.Contains(err.Error(), "log.format") {
		t.Errorf("error = %v, should mention log.format", err)
	}
}

func TestValidator_ReportsDirRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Reports.Dir = ""

	err := ValidateConfig(cfg)
	if err == nil {
		t.Error("Validate() error = nil, want error for empty reports.dir")
	}
	if !strings.Contains(err.Error(), "reports.dir") {
		t.Errorf("error = %v, should mention reports.dir", err)
	}
}

func TestValidator_ReportsBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero max_files", func(c *Config) { c.Reports.MaxFiles = 0 }, "reports.max_files"},
		{"negative max_files", func(c *Config) { c.Reports.MaxFiles = -1 }, "reports.max_files"},
		{"zero buffer_capacity", func(c *Config) { c.Reports.BufferCapacity = 0 }, "reports.buffer_capacity"},
		{"zero max_frames", func(c *Config) { c.Reports.MaxFrames = 0 }, "reports.max_frames"},
		{"excessive max_frames", func(c *Config) { c.Reports.MaxFrames = 1024 }, "reports.max_frames"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if err == nil {
				t.Fatalf("Validate() error = nil, want error for %s", tt.field)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error = %v, should mention %s", err, tt.field)
			}
		})
	}
}

func TestValidator_EmptyRequiredPath(t *testing.T) {
	cfg := validConfig()
	cfg.Capture.RequiredPaths = []string{"/opt/app/assets", "  "}

	err := ValidateConfig(cfg)
	if err == nil {
		t.Error("Validate() error = nil, want error for blank required path")
	}
	if !strings.Contains(err.Error(), "capture.required_paths") {
		t.Errorf("error = %v, should mention capture.required_paths", err)
	}
}

func TestValidator_ServerConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty host", func(c *Config) { c.Server.Host = "" }, "server.host"},
		{"bogus host", func(c *Config) { c.Server.Host = "not a host!" }, "server.host"},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if err == nil {
				t.Fatalf("Validate() error = nil, want error for %s", tt.field)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error = %v, should mention %s", err, tt.field)
			}
		})
	}
}

func TestValidator_LocalhostAccepted(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Host = "localhost"

	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for localhost", err)
	}
}

func TestValidator_InvalidDebounce(t *testing.T) {
	cfg := validConfig()
	cfg.Watch.Debounce = "half a second"

	err := ValidateConfig(cfg)
	if err == nil {
		t.Error("Validate() error = nil, want error for invalid debounce")
	}
	if !strings.Contains(err.Error(), "watch.debounce") {
		t.Errorf("error = %v, should mention watch.debounce", err)
	}
}

func TestValidator_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "loud"
	cfg.Server.Port = -1
	cfg.Watch.Debounce = "soon"

	v := NewValidator()
	err := v.Validate(cfg)
	if err == nil {
		t.Fatal("Validate() error = nil, want collected errors")
	}

	errs := v.Errors()
	if !errs.HasErrors() {
		t.Fatal("Errors().HasErrors() = false, want true")
	}
	if len(errs) != 3 {
		t.Errorf("len(Errors()) = %d, want 3: %v", len(errs), errs)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := ValidationError{Field: "server.port", Value: -1, Message: "must be between 1 and 65535"}
	got := err.Error()
	for _, want := range []string{"server.port", "must be between 1 and 65535", "-1"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, should contain %q", got, want)
		}
	}
}
