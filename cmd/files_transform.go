package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/ui"
	"github.com/PolarWolf314/huna/internal/utils"
	"github.com/PolarWolf314/huna/internal/workflows"
	"github.com/spf13/cobra"
)

// transformFlags holds the flags shared by encrypt and decrypt.
type transformFlags struct {
	dryRun   bool
	json     bool
	password passwordFlags
}

func (f *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "show what would be changed without writing anything")
	cmd.Flags().BoolVar(&f.json, "json", false, "output results as JSON")
	f.password.register(cmd, true)
}

func (f *transformFlags) reset() {
	f.dryRun = false
	f.json = false
	f.password.reset()
}

// transformMode binds a command to one direction of the transform.
type transformMode struct {
	op       string // "encrypt" or "decrypt"
	past     string // "Encrypted" or "Decrypted"
	progress string
	confirm  bool
	file     func(*workflows.Engine, context.Context, string, string) (*workflows.FileResult, error)
	dir      func(*workflows.Engine, context.Context, string, string, workflows.BatchOptions) (*workflows.BatchStats, error)
	// pending reports whether a file in the given state would be transformed.
	pending func(isEncrypted bool) bool
}

// directoryOutput is one directory target of a transform.
type directoryOutput struct {
	Path  string                `json:"path"`
	Stats *workflows.BatchStats `json:"stats"`
}

// transformOutput is the --json result of encrypt and decrypt.
type transformOutput struct {
	Success     bool                   `json:"success"`
	Operation   string                 `json:"operation"`
	DryRun      bool                   `json:"dry_run,omitempty"`
	Files       []workflows.FileResult `json:"files"`
	Skipped     []string               `json:"skipped,omitempty"`
	Directories []directoryOutput      `json:"directories,omitempty"`
	Errors      []workflows.FileError  `json:"errors,omitempty"`
}

func runTransform(cmd *cobra.Command, args []string, flags *transformFlags, mode transformMode) error {
	Logger.Infof("Starting %s command", mode.op)
	ctx := commandContext(cmd)

	engine, err := newEngine()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to load configuration: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to get working directory: %v", err)
	}

	targets, err := workflows.ResolveTargets(args, cwd)
	if err != nil {
		return reportTransformError(flags, err)
	}
	Logger.Debugf("Resolved %d targets", len(targets))

	password, err := flags.password.resolvePassword(mode.confirm && !flags.dryRun)
	if err != nil {
		return reportTransformError(flags, err)
	}

	spinner, cleanup := startSpinner(mode.progress, flags.json)
	defer cleanup()

	out := transformOutput{Operation: mode.op, DryRun: flags.dryRun, Files: []workflows.FileResult{}}
	var lines []string

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			err = fmt.Errorf("%w: %w", kerrors.ErrFileSystem, err)
			out.Errors = append(out.Errors, fileError(target, err))
			lines = append(lines, formatTargetError(cwd, target, err))
			continue
		}

		if info.IsDir() {
			stats, err := mode.dir(engine, ctx, target, password, workflows.BatchOptions{DryRun: flags.dryRun})
			if stats != nil {
				out.Directories = append(out.Directories, directoryOutput{Path: target, Stats: stats})
				out.Errors = append(out.Errors, stats.Errors...)
				lines = append(lines, formatBatch(cwd, target, stats, mode)...)
			}
			if err != nil {
				out.Errors = append(out.Errors, fileError(target, err))
				lines = append(lines, formatTargetError(cwd, target, err))
				if kerrors.KindOf(err) == kerrors.KindCancelled {
					break
				}
			}
			continue
		}

		if flags.dryRun {
			line, pending, err := classifyFile(engine, cwd, target, mode)
			if err != nil {
				out.Errors = append(out.Errors, fileError(target, err))
				lines = append(lines, formatTargetError(cwd, target, err))
				continue
			}
			if pending {
				out.Files = append(out.Files, workflows.FileResult{Path: target})
			} else {
				out.Skipped = append(out.Skipped, target)
			}
			lines = append(lines, line)
			continue
		}

		result, err := mode.file(engine, ctx, target, password)
		if err != nil {
			out.Errors = append(out.Errors, fileError(target, err))
			lines = append(lines, formatTargetError(cwd, target, err))
			continue
		}
		out.Files = append(out.Files, *result)
		lines = append(lines, ui.Success.Sprint("✓")+" "+mode.past+" "+ui.Path.Sprint(utils.RelativeTo(cwd, result.Path))+
			" "+ui.Muted.Sprint(result.Encoding+", "+ui.Size(result.Size)))
	}

	out.Success = len(out.Errors) == 0

	if flags.json {
		spinner.FinalMSG = ""
		if err := outputJSON(out); err != nil {
			return err
		}
	} else {
		spinner.FinalMSG = strings.Join(lines, "\n")
	}

	if !out.Success {
		return errFailed
	}
	return nil
}

// classifyFile reports what a transform would do to a single file without
// reading more than its header.
func classifyFile(engine *workflows.Engine, cwd, path string, mode transformMode) (string, bool, error) {
	header, err := engine.IO.ReadHeader(path)
	if err != nil {
		return "", false, err
	}
	rel := ui.Path.Sprint(utils.RelativeTo(cwd, path))
	dry := ui.Warning.Sprint("[dry-run]")

	switch {
	case header.Size == 0:
		return dry + " Would skip " + rel + " " + ui.Muted.Sprint("empty"), false, nil
	case !mode.pending(header.IsEncrypted):
		state := "not encrypted"
		if header.IsEncrypted {
			state = "already encrypted"
		}
		return dry + " Would skip " + rel + " " + ui.Muted.Sprint(state), false, nil
	default:
		return dry + " Would " + mode.op + " " + rel, true, nil
	}
}

func formatBatch(cwd, root string, stats *workflows.BatchStats, mode transformMode) []string {
	rel := ui.Path.Sprint(utils.RelativeTo(cwd, root))
	done := stats.Encrypted + stats.Decrypted

	var lines []string
	if stats.DryRun {
		lines = append(lines, ui.Warning.Sprint("[dry-run]")+" Would "+mode.op+" "+ui.Count(done, "file", "files")+" in "+rel)
		for _, f := range stats.Files {
			lines = append(lines, "    - "+ui.Path.Sprint(utils.RelativeTo(cwd, f)))
		}
	} else {
		lines = append(lines, ui.Success.Sprint("✓")+" "+mode.past+" "+ui.Count(done, "file", "files")+" in "+rel)
	}

	if stats.Skipped > 0 {
		lines = append(lines, ui.Info.Sprint("→")+" Skipped "+ui.Count(stats.Skipped, "file", "files"))
	}
	for _, fe := range stats.Errors {
		lines = append(lines, ui.Error.Sprint("✗")+" "+ui.Path.Sprint(utils.RelativeTo(cwd, fe.Path))+": "+fe.Message)
	}
	return lines
}

func formatTargetError(cwd, path string, err error) string {
	return ui.Error.Sprint("✗") + " " + ui.Path.Sprint(utils.RelativeTo(cwd, path)) + ": " + kerrors.Message(err) + errorHint(err)
}

func fileError(path string, err error) workflows.FileError {
	return workflows.FileError{
		Path:    path,
		Kind:    kerrors.KindOf(err),
		Message: kerrors.Message(err),
		Err:     err,
	}
}

// reportTransformError prints an error raised before any file was touched.
func reportTransformError(flags *transformFlags, err error) error {
	Logger.Errorf("%v", err)
	if flags.json {
		return outputErrorJSON(err)
	}
	fmt.Println(formatError(err))
	return errFailed
}
