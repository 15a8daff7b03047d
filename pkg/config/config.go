package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the APOD saver
type Config struct {
	// APOD API settings
	APOD APODConfig `yaml:"apod"`

	// Output settings for saved images
	Output OutputConfig `yaml:"output"`

	// Record store settings
	Store StoreConfig `yaml:"store"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// APODConfig holds NASA APOD API settings
type APODConfig struct {
	APIKey  string        `yaml:"api_key" env:"APODSAVER_API_KEY"`
	BaseURL string        `yaml:"base_url" env:"APODSAVER_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"APODSAVER_TIMEOUT"`
	// Thumbs asks the API to include thumbnail URLs for video entries
	Thumbs bool `yaml:"thumbs"`
}

// OutputConfig holds image output settings
type OutputConfig struct {
	ImageDirectory string `yaml:"image_directory" env:"APODSAVER_IMAGE_DIR"`

	// KeepMetadataOnImageFailure controls whether a record whose image
	// download failed is still merged into the store
	KeepMetadataOnImageFailure bool `yaml:"keep_metadata_on_image_failure"`

	// VerifyImageFiles re-downloads an image when its record is stored but
	// the file is missing from the image directory
	VerifyImageFiles bool `yaml:"verify_image_files" env:"APODSAVER_VERIFY_IMAGES"`
}

// StoreConfig holds record store settings
type StoreConfig struct {
	Path string `yaml:"path" env:"APODSAVER_STORE_PATH"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerHour int `yaml:"requests_per_hour" env:"APODSAVER_REQUESTS_PER_HOUR"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" env:"APODSAVER_LOG_LEVEL"`
	File  string `yaml:"file" env:"APODSAVER_LOG_FILE"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		APOD: APODConfig{
			BaseURL: "https://api.nasa.gov/planetary/apod",
			Timeout: 30 * time.Second,
			Thumbs:  true,
		},
		Output: OutputConfig{
			ImageDirectory:             filepath.Join("data", "images"),
			KeepMetadataOnImageFailure: true,
			VerifyImageFiles:           false,
		},
		Store: StoreConfig{
			Path: filepath.Join("data", "responses.json"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerHour: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	// NASA_API_KEY is the name NASA's own docs use, accept it too
	if c.APOD.APIKey == "" {
		if key := os.Getenv("NASA_API_KEY"); key != "" {
			c.APOD.APIKey = key
		}
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".apodsaver.yaml",
		".apodsaver.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "apodsaver", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "apodsaver", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".apodsaver.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.APOD.BaseURL == "" {
		errs = append(errs, errors.New("APOD base URL is required"))
	}
	if c.APOD.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Output.ImageDirectory == "" {
		errs = append(errs, errors.New("image directory is required"))
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("record store path is required"))
	}

	if c.RateLimit.RequestsPerHour <= 0 {
		errs = append(errs, errors.New("requests per hour must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiKey, ok := flags["api-key"].(string); ok && apiKey != "" {
		c.APOD.APIKey = apiKey
	}
	if imageDir, ok := flags["image-dir"].(string); ok && imageDir != "" {
		c.Output.ImageDirectory = imageDir
	}
	if storePath, ok := flags["store"].(string); ok && storePath != "" {
		c.Store.Path = storePath
	}
	if verify, ok := flags["verify-images"].(bool); ok {
		c.Output.VerifyImageFiles = verify
	}
	if keep, ok := flags["keep-metadata"].(bool); ok {
		c.Output.KeepMetadataOnImageFailure = keep
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment variables > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".apodsaver.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
