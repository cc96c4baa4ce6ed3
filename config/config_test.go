package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Storage.DBPath != DefaultDBPath || cfg.Import.MaxFileSize != DefaultMaxFileSize || cfg.Server.Port != DefaultServerPort {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.Telemetry.Enabled {
		t.Fatalf("expected telemetry to be enabled")
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("server:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Import.MaxFileSize != 5*1024*1024 || cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestValidateYAMLContent_NormalizesLogging(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("logging:\n  level: WARNING\n  format: JSON\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "zero upload limit", content: "import:\n  max_file_size: 0\n", field: "MaxFileSize"},
		{name: "port out of range", content: "server:\n  port: 70000\n", field: "Port"},
		{name: "unknown level", content: "logging:\n  level: verbose\n", field: "Level"},
		{name: "unknown format", content: "logging:\n  format: xml\n", field: "Format"},
		{name: "empty db path", content: "storage:\n  db_path: \"\"\n", field: "DBPath"},
	}

	for _, tc := range tests {
		_, err := ValidateYAMLContent([]byte(tc.content))
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.field) {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestValidateYAMLContent_RejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	if _, err := ValidateYAMLContent([]byte("server: [unclosed")); err == nil {
		t.Fatalf("expected parse error")
	}
}
