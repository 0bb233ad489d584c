package cmd

import (
	"fmt"

	"github.com/PolarWolf314/huna/internal/audit"
	"github.com/PolarWolf314/huna/internal/configs"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/PolarWolf314/huna/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logPath      string
	logSince     string
	logUntil     string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logPath, "path", "", "filter by path substring")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logPath = ""
	logSince = ""
	logUntil = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of encrypt, decrypt and write operations.

Shows who changed which files and when. Use filters to narrow down
the results.

Examples:
  huna files log                              # View full log
  huna files log -n 10                        # Last 10 entries
  huna files log --reverse                    # Most recent first
  huna files log --operation encrypt,decrypt  # Filter by operation
  huna files log --path journal               # Filter by path
  huna files log --since 2024-01-01           # Filter by date
  huna files log --json                       # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	engine, err := newEngine()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to load configuration: %v", err)
	}

	opts := workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Operations: logOperation,
		Path:       logPath,
		Since:      logSince,
		Until:      logUntil,
	}

	result, err := engine.Log(commandContext(cmd), opts)
	if err != nil {
		Logger.Errorf("%v", err)
		if logJSON {
			return outputErrorJSON(err)
		}
		fmt.Println(formatError(err))
		return errFailed
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if logJSON {
		entries := result.Entries
		if entries == nil {
			entries = []audit.Entry{}
		}
		return outputJSON(entries)
	}

	if len(result.Entries) == 0 {
		switch {
		case engine.Audit == nil:
			fmt.Println(ui.Info.Sprint("ℹ") + " Audit logging is disabled in " + ui.Path.Sprint(configs.UserHunaSettings.ConfigFile()))
		case result.TotalEntriesBeforeFilter == 0:
			fmt.Println("No audit log entries found.")
		default:
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	outputLogDefault(result.Entries)
	return nil
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		datetime := workflows.FormatDateTime(e.Timestamp)
		details := workflows.FormatDetails(e)
		fmt.Printf("%-19s  %-12s  %-8s  %s  %s\n", datetime, e.User, e.Operation, ui.Path.Sprint(e.Path), ui.Muted.Sprint(details))
	}
}
