package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyStorageDBPath     = "storage.db_path"
	KeyImportMaxFileSize = "import.max_file_size"
	KeyServerPort        = "server.port"
	KeyLoggingLevel      = "logging.level"
	KeyLoggingFormat     = "logging.format"
	KeyTelemetryEnabled  = "telemetry.enabled"
)

const (
	DefaultDBPath      = "scoutdesk.db"
	DefaultMaxFileSize = 5 << 20
	DefaultServerPort  = 8080
)

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Import    ImportConfig    `mapstructure:"import"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type ImportConfig struct {
	// MaxFileSize is the largest accepted upload in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size" validate:"gt=0"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# scoutdesk configuration
storage:
  db_path: "scoutdesk.db"

import:
  # largest accepted upload in bytes
  max_file_size: 5242880

server:
  port: 8080

logging:
  level: "info"   # debug, info, warn, error
  format: "text"  # text, json

telemetry:
  enabled: true
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	if cfg.Logging.Level == "warning" {
		cfg.Logging.Level = "warn"
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageDBPath, DefaultDBPath)
	v.SetDefault(KeyImportMaxFileSize, DefaultMaxFileSize)
	v.SetDefault(KeyServerPort, DefaultServerPort)
	v.SetDefault(KeyLoggingLevel, "info")
	v.SetDefault(KeyLoggingFormat, "text")
	v.SetDefault(KeyTelemetryEnabled, true)
}
