package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/PolarWolf314/huna/internal/configs"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

// configShowOutput is the --json result of config show.
type configShowOutput struct {
	ConfigFile string          `json:"config_file"`
	AuditFile  string          `json:"audit_file"`
	Defaults   bool            `json:"defaults"`
	Config     *configs.Config `json:"config"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Displays the configuration in effect: the values from
~/.config/huna/config.toml, with defaults for anything the file leaves out.

Examples:
  # Show the configuration as TOML
  huna config show

  # Output in JSON format
  huna config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")
		ConfigLogger.Debugf("Flags: json=%t", configShowJSON)

		settings := configs.UserHunaSettings
		ConfigLogger.Debugf("Loading user config from %s", settings.ConfigFile())
		config, err := configs.LoadConfig()
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		defaults := !configs.ConfigExists()
		if configShowJSON {
			return outputJSON(configShowOutput{
				ConfigFile: settings.ConfigFile(),
				AuditFile:  settings.AuditFile(),
				Defaults:   defaults,
				Config:     config,
			})
		}

		fmt.Printf("# %s\n", settings.ConfigFile())
		if defaults {
			fmt.Println("# " + ui.Muted.Sprint("not found, showing defaults"))
			fmt.Println("# " + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("huna config init") + " to create it")
		}
		fmt.Println()

		if err := toml.NewEncoder(os.Stdout).Encode(config); err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to encode config: %v", err)
		}
		return nil
	},
}
