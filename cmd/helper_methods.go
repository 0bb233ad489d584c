package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/PolarWolf314/huna/internal/configs"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/secrets"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/PolarWolf314/huna/internal/workflows"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// errFailed is returned after the failure has already been reported to the
// user, so the process exits non-zero without printing it twice.
var errFailed = errors.New("one or more operations failed")

// IsReported reports whether err was already printed by the command.
func IsReported(err error) bool {
	return errors.Is(err, errFailed)
}

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, quiet bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	animate := !quiet && !verbose && !debug
	if animate {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if animate {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if animate {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// passwordFlags selects where a command reads the password from.
type passwordFlags struct {
	stdin bool
	file  string
}

func (p *passwordFlags) register(cmd *cobra.Command, allowStdin bool) {
	if allowStdin {
		cmd.Flags().BoolVar(&p.stdin, "password-stdin", false, "read the password from the first line of stdin")
	}
	cmd.Flags().StringVar(&p.file, "password-file", "", "read the password from the first line of a file")
}

func (p *passwordFlags) reset() {
	p.stdin = false
	p.file = ""
}

// resolvePassword returns the password from the explicit flag source when
// one is given. Otherwise it tries HUNA_PASSWORD and then the terminal
// prompt, asking twice when confirm is set.
func (p *passwordFlags) resolvePassword(confirm bool) (string, error) {
	switch {
	case p.stdin:
		Logger.Debugf("Reading password from stdin")
		return secrets.Reader{R: os.Stdin}.Password(confirm)
	case p.file != "":
		Logger.Debugf("Reading password from %s", p.file)
		f, err := os.Open(p.file)
		if err != nil {
			return "", fmt.Errorf("%w: cannot open password file: %w", kerrors.ErrValidation, err)
		}
		defer f.Close()
		return secrets.Reader{R: f}.Password(confirm)
	}

	Logger.Debugf("Reading password from %s or the terminal", secrets.EnvPassword)
	return secrets.First{secrets.Env{}, secrets.Prompt{}}.Password(confirm)
}

// newEngine loads the user configuration and builds the transform engine.
func newEngine() (*workflows.Engine, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Loaded config from %s", configs.UserHunaSettings.ConfigFile())
	return workflows.NewEngine(cfg, Logger), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// formatError renders err with a hint for the errors a user can act on.
func formatError(err error) string {
	return ui.Error.Sprint("✗") + " " + kerrors.Message(err) + errorHint(err)
}

func errorHint(err error) string {
	switch kerrors.KindOf(err) {
	case kerrors.KindDecryptionFailed:
		return "\n" + ui.Info.Sprint("→") + " Check the password and try again"
	case kerrors.KindAlreadyEncrypted:
		return "\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("huna files decrypt") + " to restore it"
	case kerrors.KindNotEncrypted:
		return "\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("huna files encrypt") + " to protect it"
	case kerrors.KindSizeExceeded:
		return "\n" + ui.Info.Sprint("→") + " Raise the limits in " + ui.Path.Sprint(configs.UserHunaSettings.ConfigFile())
	default:
		return ""
	}
}

// outputJSON prints v as indented JSON on stdout.
func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// errorOutput is the JSON shape of a command that failed before producing a result.
type errorOutput struct {
	Success bool         `json:"success"`
	Kind    kerrors.Kind `json:"kind"`
	Error   string       `json:"error"`
}

func outputErrorJSON(err error) error {
	if jsonErr := outputJSON(errorOutput{Kind: kerrors.KindOf(err), Error: kerrors.Message(err)}); jsonErr != nil {
		return jsonErr
	}
	return errFailed
}
