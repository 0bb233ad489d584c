package cmd

import (
	"fmt"
	"unicode/utf8"

	"github.com/PolarWolf314/huna/internal/charset"
	"github.com/PolarWolf314/huna/internal/content"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/PolarWolf314/huna/internal/utils"
	"github.com/PolarWolf314/huna/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	writeJSON     bool
	writeEncoding string
	writePassword passwordFlags
)

func init() {
	writeCmd.Flags().BoolVar(&writeJSON, "json", false, "output the result as JSON")
	writeCmd.Flags().StringVar(&writeEncoding, "encoding", "", "store UTF-8 input as text in this encoding (e.g. windows-1252)")
	// Stdin carries the content, so the password cannot come from it.
	writePassword.register(writeCmd, false)
}

// resetWriteCommandState resets the write command's global state for testing.
func resetWriteCommandState() {
	writeJSON = false
	writeEncoding = ""
	writePassword.reset()
}

// writeOutput is the --json result of write.
type writeOutput struct {
	Success bool `json:"success"`
	workflows.FileResult
}

var writeCmd = &cobra.Command{
	Use:   "write <file>",
	Short: "Encrypts content from stdin straight into a file",
	Long: `Reads content from stdin, encrypts it in memory and writes only the
encrypted file. The plaintext never touches the disk. An existing file at
the path is replaced.

The text encoding is detected from the input, exactly as for a file. Use
--encoding to store UTF-8 input in another encoding instead, so that it
decrypts to that encoding.

Because stdin carries the content, the password comes from --password-file,
HUNA_PASSWORD or the terminal.

Examples:
  pbpaste | huna files write notes.txt
  huna files view notes.txt | sed 's/draft/final/' | huna files write notes.txt
  echo "café" | huna files write legacy.txt --encoding windows-1252`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting write command")
		path := args[0]

		engine, err := newEngine()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load configuration: %v", err)
		}

		data, err := utils.ReadStdin()
		if err != nil {
			return reportWriteError(fmt.Errorf("%w: %v", kerrors.ErrValidation, err))
		}
		Logger.Debugf("Read %d bytes from stdin", len(data))

		password, err := writePassword.resolvePassword(true)
		if err != nil {
			return reportWriteError(err)
		}

		spinner, cleanup := startSpinner("Encrypting content...", writeJSON)
		defer cleanup()

		var result *workflows.FileResult
		if writeEncoding == "" {
			result, err = engine.Save(commandContext(cmd), path, data, password)
		} else {
			var c content.Content
			c, err = textContent(data, writeEncoding)
			if err == nil {
				result, err = engine.SaveContent(commandContext(cmd), path, c, password)
			}
		}
		if err != nil {
			Logger.Errorf("%v", err)
			if writeJSON {
				return outputErrorJSON(err)
			}
			spinner.FinalMSG = formatError(err)
			return errFailed
		}

		if writeJSON {
			return outputJSON(writeOutput{Success: true, FileResult: *result})
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Encrypted content into " + ui.Path.Sprint(result.Path) +
			" " + ui.Muted.Sprint(result.Encoding+", "+ui.Size(result.Size))
		return nil
	},
}

// textContent wraps UTF-8 input as text to be stored in encoding.
func textContent(data []byte, encoding string) (content.Content, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: content is empty", kerrors.ErrValidation)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: --encoding needs UTF-8 input", kerrors.ErrValidation)
	}
	return content.FromText(string(data), charset.Normalize(encoding))
}

func reportWriteError(err error) error {
	Logger.Errorf("%v", err)
	if writeJSON {
		return outputErrorJSON(err)
	}
	fmt.Println(formatError(err))
	return errFailed
}
