package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds packaging settings.
type Config struct {
	// LogLevel is the minimum level of diagnostic messages written to stderr.
	LogLevel string `yaml:"log_level"`
	// FollowSymlinks makes links to regular files be archived with the target's content.
	// When false every symlink is skipped.
	FollowSymlinks *bool `yaml:"follow_symlinks,omitempty"`
}

const (
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownLogLevel is returned for log levels the logger does not support.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings used when no configuration file is given.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// An empty path yields Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings and fills in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	if cfg.FollowSymlinks == nil {
		follow := true
		cfg.FollowSymlinks = &follow
	}

	return nil
}

// ShouldFollowSymlinks reports the effective symlink policy.
func (c *Config) ShouldFollowSymlinks() bool {
	return c == nil || c.FollowSymlinks == nil || *c.FollowSymlinks
}
