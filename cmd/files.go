package cmd

import (
	logger "github.com/PolarWolf314/huna/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	FilesCmd = &cobra.Command{
		Use:   "files",
		Short: "Encrypt, decrypt and inspect files in place",
		Long: `Provides password-based encryption of files and directories in place.

Encrypted files keep their name. Their content is replaced with a marker,
a small metadata block and the encrypted payload, so the original bytes
and text encoding come back exactly on decryption.

Examples:
  huna files encrypt notes.txt           # Encrypt one file
  huna files encrypt ./journal           # Encrypt every file in a directory
  huna files decrypt 'docs/**/*.md'      # Decrypt files matching a glob
  huna files status ./journal            # Show which files are encrypted
  huna files view notes.txt              # Print a decrypted file without writing it`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing files command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	FilesCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	FilesCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	FilesCmd.AddCommand(encryptCmd)
	FilesCmd.AddCommand(decryptCmd)
	FilesCmd.AddCommand(statusCmd)
	FilesCmd.AddCommand(viewCmd)
	FilesCmd.AddCommand(writeCmd)
	FilesCmd.AddCommand(logCmd)
}

// Helper functions for testing

// GetFilesCmd returns the FilesCmd for testing.
func GetFilesCmd() *cobra.Command {
	return FilesCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	encryptFlags.reset()
	decryptFlags.reset()
	resetStatusCommandState()
	resetViewCommandState()
	resetWriteCommandState()
	resetLogCommandState()
	resetCobraFlagState(FilesCmd)
}

// resetCobraFlagState clears the Changed marks left on every flag of cmd
// and its subcommands by a previous Execute.
func resetCobraFlagState(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
