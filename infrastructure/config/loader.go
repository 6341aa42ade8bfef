package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its configuration
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Google  GoogleConfig  `yaml:"google"`
	Upload  UploadConfig  `yaml:"upload"`
	Logging LoggingConfig `yaml:"logging"`
}

// GoogleConfig contains Google API settings
type GoogleConfig struct {
	Strategy          string `yaml:"strategy" validate:"omitempty,oneof=oauth service_account"`
	Scope             string `yaml:"scope" validate:"omitempty,oneof=drive drive.file"`
	FolderID          string `yaml:"folder_id"`
	EnvFile           string `yaml:"env_file"`
	OAuthClientFile   string `yaml:"oauth_client_file"`
	OAuthCallbackAddr string `yaml:"oauth_callback_addr" validate:"omitempty,hostname_port"`
}

// UploadConfig contains defaults for upload parameters
type UploadConfig struct {
	FilenamePrefix string `yaml:"filename_prefix" validate:"required"`
	Format         string `yaml:"format" validate:"oneof=PNG JPEG WEBP"`
	Quality        int    `yaml:"quality" validate:"min=1,max=100"`
	AddTimestamp   bool   `yaml:"add_timestamp"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Google: GoogleConfig{
			Strategy: "oauth",
			EnvFile:  ".env",
		},
		Upload: UploadConfig{
			FilenamePrefix: "comfyui_output",
			Format:         "PNG",
			Quality:        95,
			AddTimestamp:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Upload.Format = strings.ToUpper(strings.TrimSpace(cfg.Upload.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validate = validator.New()

// Validate checks field values against their constraints
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// describe renders a validation failure using the field's namespace
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 100, got %v", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
