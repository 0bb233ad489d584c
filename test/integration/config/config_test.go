package config_test

import (
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/huna/internal/configs"
	"github.com/PolarWolf314/huna/test/integration/shared"
)

// TestConfigShow_Defaults checks the TOML rendering before init.
func TestConfigShow_Defaults(t *testing.T) {
	shared.NewTestEnvironment(t)

	output, err := shared.RunCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\nOutput: %s", err, output)
	}
	shared.AssertOutputContains(t, output,
		"not found, showing defaults",
		"[limits]", "max_file_size = 104857600",
		"[walk]", "[writes]", "atomic = true", "[audit]", "enabled = true",
	)
}

// TestConfigInit_ExcludeApplies checks that a configured exclude pattern
// keeps the directory walk away from matching files.
func TestConfigInit_ExcludeApplies(t *testing.T) {
	tempDir, _ := shared.NewTestEnvironment(t)

	output, err := shared.RunCommand(t, "config", "init", "--exclude", "**/*.lock")
	if err != nil {
		t.Fatalf("config init failed: %v\nOutput: %s", err, output)
	}
	if !configs.ConfigExists() {
		t.Fatal("config file was not written")
	}

	shared.WriteTestFile(t, filepath.Join(tempDir, "app", "main.txt"), []byte("main\n"))
	shared.WriteTestFile(t, filepath.Join(tempDir, "app", "deps.lock"), []byte("locked\n"))

	if output, err := shared.RunCommand(t, "files", "encrypt", "app"); err != nil {
		t.Fatalf("encrypt failed: %v\nOutput: %s", err, output)
	}

	shared.AssertEncrypted(t, filepath.Join(tempDir, "app", "main.txt"))
	shared.AssertContent(t, filepath.Join(tempDir, "app", "deps.lock"), []byte("locked\n"))
}

// TestConfigInit_SizeLimitApplies checks that a lowered file ceiling is enforced.
func TestConfigInit_SizeLimitApplies(t *testing.T) {
	tempDir, _ := shared.NewTestEnvironment(t)

	output, err := shared.RunCommand(t, "config", "init", "--max-file-size", "1KiB", "--max-memory-size", "1KiB")
	if err != nil {
		t.Fatalf("config init failed: %v\nOutput: %s", err, output)
	}

	big := make([]byte, 4096)
	for i := range big {
		big[i] = 'a'
	}
	path := filepath.Join(tempDir, "big.txt")
	shared.WriteTestFile(t, path, big)

	output, _ = shared.RunCommand(t, "files", "encrypt", "big.txt")
	shared.AssertOutputContains(t, output, "too large")
	shared.AssertContent(t, path, big)
}

// TestConfigInit_NoAudit checks that disabling the audit log stops recording.
func TestConfigInit_NoAudit(t *testing.T) {
	tempDir, _ := shared.NewTestEnvironment(t)

	if output, err := shared.RunCommand(t, "config", "init", "--no-audit"); err != nil {
		t.Fatalf("config init failed: %v\nOutput: %s", err, output)
	}

	shared.WriteTestFile(t, filepath.Join(tempDir, "notes.txt"), []byte("buy milk\n"))
	if output, err := shared.RunCommand(t, "files", "encrypt", "notes.txt"); err != nil {
		t.Fatalf("encrypt failed: %v\nOutput: %s", err, output)
	}

	output, err := shared.RunCommand(t, "files", "log")
	if err != nil {
		t.Fatalf("log failed: %v\nOutput: %s", err, output)
	}
	shared.AssertOutputContains(t, output, "Audit logging is disabled")
}
