// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments,
// capturing output, and running the real commands under a fresh root.
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/huna/internal/configs"
	logger "github.com/PolarWolf314/huna/internal/logging"
	"github.com/spf13/cobra"
)

// setupTestEnvironment points the user settings at tempUserDir and changes to tempDir.
func setupTestEnvironment(t *testing.T, tempDir, tempUserDir, originalWd string, originalUserSettings *configs.UserSettings) {
	// Change to temp directory
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Cleanup function to restore original state
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserHunaSettings = originalUserSettings
		ResetGlobalState()
		ResetConfigState()
	})

	// Override user settings to use temp directory
	configs.UserHunaSettings = &configs.UserSettings{
		ConfigPath: filepath.Join(tempUserDir, "config"),
		DataPath:   filepath.Join(tempUserDir, "data"),
		Username:   "testuser",
	}
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Stdout first, so JSON output is at the start of the result.
	return <-stdoutChan + <-stderrChan, err
}

// createTestCLI creates a complete CLI instance running args, such as
// []string{"files", "encrypt", "notes.txt"}.
func createTestCLI(args []string, verboseFlag, debugFlag bool) *cobra.Command {
	ResetGlobalState()
	ResetConfigState()

	// Set global flags for the actual command (needed for the real command implementations)
	verbose = verboseFlag
	debug = debugFlag

	// Initialize the logger with the test flags
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}

	// Create a fresh root command for this test
	rootCmd := &cobra.Command{
		Use:           "huna",
		Short:         "huna - encrypt files and directories in place with a password.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.AddCommand(FilesCmd)
	rootCmd.AddCommand(ConfigCmd)
	rootCmd.SetArgs(args)

	// Set the flags on the files command
	if err := FilesCmd.PersistentFlags().Set("verbose", fmt.Sprintf("%t", verboseFlag)); err != nil {
		log.Fatalf("Failed to set verbose flag for testing: %s", err)
	}
	if err := FilesCmd.PersistentFlags().Set("debug", fmt.Sprintf("%t", debugFlag)); err != nil {
		log.Fatalf("Failed to set debug flag for testing: %s", err)
	}

	return rootCmd
}

// runCLI runs args under a fresh root and returns the captured output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		return createTestCLI(args, false, false).Execute()
	})
}
