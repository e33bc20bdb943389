package config

import (
	"os"

	"github.com/gear6io/floe/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config represents the floe tool configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`      // "json" or "console"
	FilePath   string `yaml:"file_path"`   // Path to log file
	Console    bool   `yaml:"console"`     // Whether to log to console
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB
	MaxBackups int    `yaml:"max_backups"` // Max number of backup files
	MaxAge     int    `yaml:"max_age"`     // Max age in days
	Cleanup    bool   `yaml:"cleanup"`     // Whether to cleanup log file on startup
}

// StorageConfig represents where manifests and metadata files live
type StorageConfig struct {
	DataPath string   `yaml:"data_path"`
	S3       S3Config `yaml:"s3"`
}

// S3Config represents an optional S3/MinIO object store endpoint
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			FilePath:   "logs/floe.log",
			Console:    true,
			MaxSize:    100, // 100MB
			MaxBackups: 3,
			MaxAge:     7, // 7 days
			Cleanup:    true,
		},
		Storage: StorageConfig{
			DataPath: "./data",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err).AddContext("path", filename)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err).AddContext("path", filename)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err).AddContext("path", filename)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}

	if err := c.Storage.Validate(); err != nil {
		return errors.New(ErrStorageValidationFailed, "storage validation failed", err)
	}

	return nil
}

// Validate validates the logging configuration
func (l *LogConfig) Validate() error {
	if l.Level != "" {
		if _, err := zerolog.ParseLevel(l.Level); err != nil {
			return errors.New(ErrLogLevelInvalid, "invalid log level", err).AddContext("level", l.Level)
		}
	}

	if l.Format != "" && l.Format != "json" && l.Format != "console" {
		return errors.Newf(ErrLogFormatInvalid, "invalid log format '%s': must be 'json' or 'console'", l.Format)
	}

	return nil
}

// Validate validates the storage configuration
func (s *StorageConfig) Validate() error {
	if s.DataPath == "" {
		return errors.New(ErrDataPathRequired, "data_path is required in storage configuration", nil)
	}

	// S3 is optional; when an endpoint is given the bucket must be too
	if s.S3.Endpoint != "" && s.S3.Bucket == "" {
		return errors.New(ErrS3BucketRequired, "s3 bucket is required when an endpoint is configured", nil)
	}
	if s.S3.Bucket != "" && s.S3.Endpoint == "" {
		return errors.New(ErrS3EndpointRequired, "s3 endpoint is required when a bucket is configured", nil)
	}

	return nil
}

// GetStoragePath returns the storage path
func (c *Config) GetStoragePath() string {
	return c.Storage.DataPath
}

// HasS3 reports whether an object store endpoint is configured
func (c *Config) HasS3() bool {
	return c.Storage.S3.Endpoint != ""
}
