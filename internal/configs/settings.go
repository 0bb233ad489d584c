package configs

import (
	"os"
	"path/filepath"

	"github.com/PolarWolf314/huna/internal/utils"
)

type UserSettings struct {
	// ConfigPath is the directory holding config.toml.
	ConfigPath string
	// DataPath is the directory holding the audit trail.
	DataPath string
	Username string
}

var UserHunaSettings *UserSettings

func init() {
	UserHunaSettings = DefaultUserSettings()
}

// DefaultUserSettings resolves the per-user directories from the environment.
// XDG_DATA_HOME wins over ~/.local/share, matching the XDG base directory spec.
func DefaultUserSettings() *UserSettings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(homeDir, ".config")
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	username, err := utils.GetUsername()
	if err != nil {
		username = "unknown"
	}

	return &UserSettings{
		ConfigPath: filepath.Join(configDir, "huna"),
		DataPath:   filepath.Join(dataDir, "huna"),
		Username:   username,
	}
}

// ConfigFile returns the path of config.toml.
func (s *UserSettings) ConfigFile() string {
	return filepath.Join(s.ConfigPath, "config.toml")
}

// AuditFile returns the path of the JSONL audit trail.
func (s *UserSettings) AuditFile() string {
	return filepath.Join(s.DataPath, "audit.jsonl")
}
