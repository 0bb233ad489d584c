package cmd

import (
	"fmt"

	"github.com/PolarWolf314/huna/internal/configs"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	configInitForce         bool
	configInitMaxFileSize   string
	configInitMaxMemorySize string
	configInitExclude       []string
	configInitNoAudit       bool
	configInitNoAtomic      bool
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing configuration")
	configInitCmd.Flags().StringVar(&configInitMaxFileSize, "max-file-size", "", "largest file to encrypt or decrypt (e.g. 100MiB)")
	configInitCmd.Flags().StringVar(&configInitMaxMemorySize, "max-memory-size", "", "largest file to view or write in memory (e.g. 10MiB)")
	configInitCmd.Flags().StringSliceVar(&configInitExclude, "exclude", nil, "glob pattern, relative to the walked directory, to leave out (repeatable)")
	configInitCmd.Flags().BoolVar(&configInitNoAudit, "no-audit", false, "do not record operations in the audit log")
	configInitCmd.Flags().BoolVar(&configInitNoAtomic, "no-atomic", false, "write files in place instead of through a temporary file")
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
	configInitMaxFileSize = ""
	configInitMaxMemorySize = ""
	configInitExclude = nil
	configInitNoAudit = false
	configInitNoAtomic = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the user configuration file",
	Long: `Writes ~/.config/huna/config.toml with the default settings, adjusted by
any flags given. An existing file is kept unless --force is set.

Sizes accept units such as 512KiB, 10MiB or 1GB.

Examples:
  huna config init
  huna config init --force --max-file-size 500MiB --max-memory-size 20MiB
  huna config init --exclude '**/node_modules/**' --exclude '**/*.lock'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")
		path := configs.UserHunaSettings.ConfigFile()

		if configs.ConfigExists() && !configInitForce {
			ConfigLogger.Infof("Config already exists at %s", path)
			fmt.Println(ui.Warning.Sprint("⚠") + " Configuration already exists at " + ui.Path.Sprint(path))
			fmt.Println(ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to overwrite it")
			return nil
		}

		config, err := buildInitConfig()
		if err != nil {
			fmt.Println(formatError(err))
			return errFailed
		}

		if err := configs.SaveConfig(config); err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to save config: %v", err)
		}
		ConfigLogger.Infof("Config written to %s", path)

		fmt.Println(ui.Success.Sprint("✓") + " Configuration written to " + ui.Path.Sprint(path))
		return nil
	},
}

// buildInitConfig applies the init flags to the defaults.
func buildInitConfig() (*configs.Config, error) {
	config := configs.DefaultConfig()

	if configInitMaxFileSize != "" {
		n, err := parseSize("--max-file-size", configInitMaxFileSize)
		if err != nil {
			return nil, err
		}
		config.Limits.MaxFileSize = n
	}
	if configInitMaxMemorySize != "" {
		n, err := parseSize("--max-memory-size", configInitMaxMemorySize)
		if err != nil {
			return nil, err
		}
		config.Limits.MaxMemorySize = n
	}
	if len(configInitExclude) > 0 {
		config.Walk.Exclude = append(config.Walk.Exclude, configInitExclude...)
	}
	config.Audit.Enabled = !configInitNoAudit
	config.Writes.Atomic = !configInitNoAtomic

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func parseSize(flag, value string) (int64, error) {
	n, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", kerrors.ErrValidation, flag, err)
	}
	ConfigLogger.Debugf("Parsed %s=%s as %d bytes", flag, value, n)
	return int64(n), nil
}
