package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/huna/internal/content"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/PolarWolf314/huna/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	viewJSON     bool
	viewRaw      bool
	viewPassword passwordFlags
)

func init() {
	viewCmd.Flags().BoolVar(&viewJSON, "json", false, "output the content and metadata as JSON")
	viewCmd.Flags().BoolVar(&viewRaw, "raw", false, "write binary content to stdout unchanged")
	viewPassword.register(viewCmd, true)
}

// resetViewCommandState resets the view command's global state for testing.
func resetViewCommandState() {
	viewJSON = false
	viewRaw = false
	viewPassword.reset()
}

// viewOutput is the --json result of view.
type viewOutput struct {
	Success  bool   `json:"success"`
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Encoding string `json:"encoding"`
	MimeType string `json:"mime_type"`
	IsBinary bool   `json:"is_binary"`
	Size     int    `json:"size"`
	Text     string `json:"text,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Prints a decrypted file without writing it to disk",
	Long: `Decrypts a file in memory and prints its content to stdout. The file on
disk stays encrypted.

Text is printed as UTF-8 whatever encoding the file uses. Binary content is
only written when --raw is given, so it does not garble the terminal.

Examples:
  huna files view notes.txt
  huna files view photo.png --raw > photo-copy.png
  huna files view notes.txt --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting view command")
		path := args[0]

		engine, err := newEngine()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load configuration: %v", err)
		}

		password, err := viewPassword.resolvePassword(false)
		if err != nil {
			return reportViewError(err)
		}

		preview, err := engine.Open(commandContext(cmd), path, password)
		if err != nil {
			return reportViewError(err)
		}
		return printPreview(path, preview)
	},
}

// reportViewError prints to stderr so a redirected stdout only ever holds content.
func reportViewError(err error) error {
	Logger.Errorf("%v", err)
	if viewJSON {
		return outputErrorJSON(err)
	}
	fmt.Fprintln(os.Stderr, formatError(err))
	return errFailed
}

func printPreview(path string, p *workflows.Preview) error {
	Logger.Debugf("Decrypted %s: %s, %s", path, p.Metadata.Encoding, p.MimeType)

	if viewJSON {
		out := viewOutput{
			Success:  true,
			Path:     path,
			Filename: p.Metadata.Filename,
			Encoding: p.Metadata.Encoding,
			MimeType: p.MimeType,
			IsBinary: p.IsBinary,
			Size:     content.Len(p.Content),
		}
		switch c := p.Content.(type) {
		case content.Text:
			out.Text = c.Value
		case content.Binary:
			out.Data = c.Data
		}
		return outputJSON(out)
	}

	switch c := p.Content.(type) {
	case content.Text:
		fmt.Print(c.Value)
	case content.Binary:
		if !viewRaw {
			fmt.Fprintln(os.Stderr, ui.Warning.Sprint("⚠")+" "+ui.Path.Sprint(path)+" holds binary content "+
				ui.Muted.Sprint(p.MimeType+", "+ui.Size(int64(len(c.Data)))))
			fmt.Fprintln(os.Stderr, ui.Info.Sprint("→")+" Use "+ui.Flag.Sprint("--raw")+" to write it to stdout")
			return nil
		}
		if _, err := os.Stdout.Write(c.Data); err != nil {
			return Logger.ErrorfAndReturn("Failed to write content: %v", err)
		}
	}
	return nil
}
