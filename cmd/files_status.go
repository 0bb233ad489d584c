package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/huna/internal/fileio"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/PolarWolf314/huna/internal/utils"
	"github.com/PolarWolf314/huna/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	statusJSONOutput bool
	statusRecursive  bool
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
	statusCmd.Flags().BoolVarP(&statusRecursive, "recursive", "r", false, "descend into subdirectories")
}

// resetStatusCommandState resets the status command's global state for testing.
func resetStatusCommandState() {
	statusJSONOutput = false
	statusRecursive = false
}

var statusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Show which files in a directory are encrypted",
	Long: `Lists a directory and shows, for every file, whether it is encrypted.

Only the first bytes of each file are read, so no password is needed and
large files are cheap to list. Encrypted files show the encoding and name
stored when they were encrypted; files whose header is damaged are marked
as corrupted.

Examples:
  huna files status
  huna files status ./journal --recursive
  huna files status ./journal --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		Logger.Debugf("Listing %s (recursive=%t)", root, statusRecursive)

		engine, err := newEngine()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load configuration: %v", err)
		}

		result, err := engine.Status(commandContext(cmd), root, workflows.StatusOptions{Recursive: statusRecursive})
		if err != nil {
			Logger.Errorf("%v", err)
			if statusJSONOutput {
				return outputErrorJSON(err)
			}
			fmt.Println(formatError(err))
			return errFailed
		}

		if statusJSONOutput {
			return outputJSON(result)
		}

		printStatusTable(result)
		return nil
	},
}

// printStatusTable prints a formatted table of file states.
func printStatusTable(result *workflows.StatusResult) {
	fmt.Printf("Directory: %s\n", ui.Path.Sprint(result.Root))
	fmt.Println()

	if len(result.Entries) == 0 {
		fmt.Println(ui.Success.Sprint("✓") + " No files found.")
		return
	}

	// Calculate column width for file path.
	pathWidth := 30
	for _, e := range result.Entries {
		if n := len(displayName(result.Root, e)); n > pathWidth {
			pathWidth = n
		}
	}
	// Cap at reasonable width.
	if pathWidth > 60 {
		pathWidth = 60
	}

	fmt.Printf("  %-*s  %-10s  %s\n", pathWidth, "FILE", "SIZE", "STATUS")

	for _, e := range result.Entries {
		name := displayName(result.Root, e)
		if len(name) > pathWidth {
			name = "..." + name[len(name)-pathWidth+3:]
		}

		size := ui.Size(e.Size)
		if e.IsDir {
			size = "-"
		}
		fmt.Printf("  %-*s  %-10s  %s\n", pathWidth, name, size, entryState(e))
	}

	fmt.Println()
	fmt.Println("Summary:")

	s := result.Summary
	if s.Encrypted > 0 {
		fmt.Printf("  %s encrypted\n", ui.Count(s.Encrypted, "file", "files"))
	}
	if s.Plaintext > 0 {
		fmt.Printf("  %s not encrypted (run '%s' to secure)\n",
			ui.Count(s.Plaintext, "file", "files"), ui.Code.Sprint("huna files encrypt"))
	}
	if s.Corrupted > 0 {
		fmt.Printf("  %s with a damaged header\n", ui.Count(s.Corrupted, "file", "files"))
	}
	if s.Directories > 0 && !statusRecursive {
		fmt.Printf("  %s not listed (use %s)\n",
			ui.Count(s.Directories, "directory", "directories"), ui.Flag.Sprint("--recursive"))
	}
}

func displayName(root string, e fileio.Entry) string {
	name := utils.RelativeTo(root, e.Path)
	if e.IsDir {
		name += string(os.PathSeparator)
	}
	return name
}

func entryState(e fileio.Entry) string {
	switch {
	case e.IsDir:
		return ui.Muted.Sprint("directory")
	case e.Error != "":
		return ui.Error.Sprint("✗") + " corrupted"
	case e.IsEncrypted:
		detail := e.Encoding
		if e.Metadata != nil && e.Metadata.Filename != e.Name {
			detail += ", " + e.Metadata.Filename
		}
		return ui.Locked.Sprint("encrypted") + " " + ui.Muted.Sprint(detail)
	default:
		return ui.Unlocked.Sprint("plaintext")
	}
}
