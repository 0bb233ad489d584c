package configs

import (
	"fmt"
	"os"

	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

const (
	// DefaultMaxFileSize is the ceiling for full reads of a file.
	DefaultMaxFileSize int64 = 100 * 1024 * 1024

	// DefaultMaxMemorySize is the ceiling for preview and edit transforms.
	DefaultMaxMemorySize int64 = 10 * 1024 * 1024

	// DefaultHeaderSize is the first prefix read when classifying a file.
	DefaultHeaderSize = 1024

	// DefaultMaxHeaderSize bounds the retries of a header-only read.
	DefaultMaxHeaderSize = 64 * 1024
)

type Config struct {
	Limits Limits      `toml:"limits" json:"limits"`
	Walk   WalkConfig  `toml:"walk" json:"walk"`
	Writes WriteConfig `toml:"writes" json:"writes"`
	Audit  AuditConfig `toml:"audit" json:"audit"`
}

type Limits struct {
	MaxFileSize   int64 `toml:"max_file_size" json:"max_file_size"`
	MaxMemorySize int64 `toml:"max_memory_size" json:"max_memory_size"`
	HeaderSize    int   `toml:"header_size" json:"header_size"`
	MaxHeaderSize int   `toml:"max_header_size" json:"max_header_size"`
}

type WalkConfig struct {
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the batch root.
	Exclude []string `toml:"exclude" json:"exclude"`
}

type WriteConfig struct {
	Atomic bool `toml:"atomic" json:"atomic"`
}

type AuditConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Limits: DefaultLimits(),
		Walk: WalkConfig{
			Exclude: []string{"**/.git/**", "**/.git"},
		},
		Writes: WriteConfig{Atomic: true},
		Audit:  AuditConfig{Enabled: true},
	}
}

// DefaultLimits returns the built-in size ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:   DefaultMaxFileSize,
		MaxMemorySize: DefaultMaxMemorySize,
		HeaderSize:    DefaultHeaderSize,
		MaxHeaderSize: DefaultMaxHeaderSize,
	}
}

// Validate reports limits that cannot work together.
func (c *Config) Validate() error {
	l := c.Limits
	switch {
	case l.MaxFileSize <= 0:
		return fmt.Errorf("%w: limits.max_file_size must be positive", kerrors.ErrValidation)
	case l.MaxMemorySize <= 0:
		return fmt.Errorf("%w: limits.max_memory_size must be positive", kerrors.ErrValidation)
	case l.MaxMemorySize > l.MaxFileSize:
		return fmt.Errorf("%w: limits.max_memory_size must not exceed limits.max_file_size", kerrors.ErrValidation)
	case l.HeaderSize <= 0:
		return fmt.Errorf("%w: limits.header_size must be positive", kerrors.ErrValidation)
	case l.MaxHeaderSize < l.HeaderSize:
		return fmt.Errorf("%w: limits.max_header_size must not be smaller than limits.header_size", kerrors.ErrValidation)
	}
	return nil
}

// LoadConfig loads the user configuration, falling back to defaults for a
// missing file and for any key the file leaves out.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(UserHunaSettings.ConfigFile())
}

// LoadConfigFrom loads the configuration at path over the defaults.
func LoadConfigFrom(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes the configuration to the user config file.
func SaveConfig(config *Config) error {
	if err := SaveTOML(UserHunaSettings.ConfigFile(), config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ConfigExists reports whether the user config file is present.
func ConfigExists() bool {
	_, err := os.Stat(UserHunaSettings.ConfigFile())
	return err == nil
}
