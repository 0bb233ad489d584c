// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, feeding stdin and checking the state of files on disk.
package shared

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/huna/cmd"
	"github.com/PolarWolf314/huna/internal/configs"
	"github.com/PolarWolf314/huna/internal/container"
	logger "github.com/PolarWolf314/huna/internal/logging"
	"github.com/PolarWolf314/huna/internal/secrets"
	"github.com/spf13/cobra"
)

// TestPassword is the password every test environment supplies through HUNA_PASSWORD.
const TestPassword = "correct horse battery staple"

// SetupTestEnvironment sets up the test environment with temporary directories.
func SetupTestEnvironment(t *testing.T, tempDir, tempUserDir, originalWd string, originalUserSettings *configs.UserSettings) {
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
		cmd.ResetGlobalState()
		cmd.ResetConfigState()
	})

	// Override user settings to use temp directory
	configs.UserHunaSettings = &configs.UserSettings{
		ConfigPath: filepath.Join(tempUserDir, "config"),
		DataPath:   filepath.Join(tempUserDir, "data"),
		Username:   "testuser",
	}
}

// NewTestEnvironment creates a working directory and a user directory,
// changes into the former and sets HUNA_PASSWORD to TestPassword.
// Returns the working directory and the user directory.
func NewTestEnvironment(t *testing.T) (string, string) {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	originalUserSettings := configs.UserHunaSettings

	tempDir := t.TempDir()
	tempUserDir := t.TempDir()
	SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)
	t.Setenv(secrets.EnvPassword, TestPassword)

	return tempDir, tempUserDir
}

// CaptureOutput captures both stdout and stderr during function execution.
// Stdout comes first in the returned string.
func CaptureOutput(fn func() error) (string, error) {
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

	return <-stdoutChan + <-stderrChan, err
}

// CreateTestCLI creates a complete CLI instance for testing that runs args,
// such as []string{"files", "encrypt", "notes.txt"}.
func CreateTestCLI(args []string, verboseFlag, debugFlag bool) *cobra.Command {
	cmd.ResetGlobalState()
	cmd.ResetConfigState()
	cmd.SetVerbose(verboseFlag)
	cmd.SetDebug(debugFlag)
	cmd.SetLogger(logger.Logger{
		Verbose: verboseFlag,
		Debug:   debugFlag,
	})

	// Create a fresh root command for this test
	rootCmd := &cobra.Command{
		Use:           "huna",
		Short:         "huna - encrypt files and directories in place with a password.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.AddCommand(cmd.GetFilesCmd())
	rootCmd.AddCommand(cmd.GetConfigCmd())
	rootCmd.SetArgs(args)

	// Set the flags on the files command
	if err := cmd.GetFilesCmd().PersistentFlags().Set("verbose", fmt.Sprintf("%t", verboseFlag)); err != nil {
		log.Fatalf("Failed to set verbose flag for testing: %s", err)
	}
	if err := cmd.GetFilesCmd().PersistentFlags().Set("debug", fmt.Sprintf("%t", debugFlag)); err != nil {
		log.Fatalf("Failed to set debug flag for testing: %s", err)
	}

	return rootCmd
}

// RunCommand runs args under a fresh root and returns the captured output.
func RunCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return CaptureOutput(func() error {
		return CreateTestCLI(args, false, false).Execute()
	})
}

// RunCommandWithStdin runs args with stdin replaced by data.
func RunCommandWithStdin(t *testing.T, data []byte, args ...string) (string, error) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "stdin-*")
	if err != nil {
		t.Fatalf("Failed to create stdin file: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		t.Fatalf("Failed to write stdin file: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Failed to rewind stdin file: %v", err)
	}

	originalStdin := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = originalStdin }()

	return RunCommand(t, args...)
}

// WriteTestFile writes data to path, creating parent directories.
func WriteTestFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	// #nosec G306 -- Writing a file that should be modifiable
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadTestFile returns the content of path.
func ReadTestFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}

// AssertEncrypted fails the test unless path carries the container marker.
func AssertEncrypted(t *testing.T, path string) {
	t.Helper()
	if !container.HasMarker(ReadTestFile(t, path)) {
		t.Errorf("Expected %s to be encrypted", path)
	}
}

// AssertContent fails the test unless path holds exactly want.
func AssertContent(t *testing.T, path string, want []byte) {
	t.Helper()
	if got := ReadTestFile(t, path); !bytes.Equal(got, want) {
		t.Errorf("Content of %s = %q, want %q", path, got, want)
	}
}

// AssertOutputContains fails the test unless every substring is in output.
func AssertOutputContains(t *testing.T, output string, substrings ...string) {
	t.Helper()
	for _, s := range substrings {
		if !strings.Contains(output, s) {
			t.Errorf("Expected output to contain %q, got: %s", s, output)
		}
	}
}
