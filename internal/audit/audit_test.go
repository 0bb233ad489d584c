package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/huna/internal/configs"
)

func newTestTrail(t *testing.T) *Trail {
	t.Helper()
	return &Trail{Path: filepath.Join(t.TempDir(), "huna", "audit.jsonl")}
}

func readLines(t *testing.T, trail *Trail) []string {
	t.Helper()
	data, err := os.ReadFile(trail.Path)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestLog_CreatesFile(t *testing.T) {
	trail := newTestTrail(t)

	trail.Log(Entry{User: "alice", Operation: "encrypt", Path: "notes.txt"})

	info, err := os.Stat(trail.Path)
	if os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected audit log permissions 0600, got %o", info.Mode().Perm())
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	trail := newTestTrail(t)

	trail.Log(Entry{User: "alice", Operation: "encrypt"})
	trail.Log(Entry{User: "alice", Operation: "decrypt"})
	trail.Log(Entry{User: "alice", Operation: "save"})

	lines := readLines(t, trail)
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestLog_ValidJSON(t *testing.T) {
	trail := newTestTrail(t)

	trail.Log(Entry{
		User:      "alice",
		Operation: "encrypt",
		Path:      "/home/alice/docs",
		Files:     []string{"a.txt", "b.txt"},
		Encrypted: 2,
		Skipped:   1,
	})

	var parsed Entry
	if err := json.Unmarshal([]byte(readLines(t, trail)[0]), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	if parsed.Operation != "encrypt" {
		t.Errorf("Expected operation encrypt, got %s", parsed.Operation)
	}
	if len(parsed.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(parsed.Files))
	}
	if parsed.Encrypted != 2 || parsed.Skipped != 1 {
		t.Errorf("Expected encrypted=2 skipped=1, got encrypted=%d skipped=%d", parsed.Encrypted, parsed.Skipped)
	}
}

func TestLog_FillsIDAndTimestamp(t *testing.T) {
	trail := newTestTrail(t)

	trail.Log(Entry{User: "alice", Operation: "encrypt"})

	var parsed Entry
	if err := json.Unmarshal([]byte(readLines(t, trail)[0]), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	if len(parsed.ID) != 36 {
		t.Errorf("Expected a UUID id, got %q", parsed.ID)
	}
	if !strings.HasSuffix(parsed.Timestamp, "Z") {
		t.Errorf("Timestamp should end with Z, got %s", parsed.Timestamp)
	}
	if _, err := parsed.Time(); err != nil {
		t.Errorf("Timestamp should parse: %v", err)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	trail := newTestTrail(t)

	trail.Log(Entry{User: "alice", Operation: "view"})

	line := readLines(t, trail)[0]
	for _, field := range []string{`"files"`, `"encrypted"`, `"dry_run"`, `"error"`} {
		if strings.Contains(line, field) {
			t.Errorf("Empty %s field should be omitted", field)
		}
	}
}

func TestLog_DisabledTrail(t *testing.T) {
	var nilTrail *Trail
	nilTrail.Log(Entry{Operation: "encrypt"})
	(&Trail{}).Log(Entry{Operation: "encrypt"})

	entries, err := nilTrail.ReadEntries()
	if err != nil || entries != nil {
		t.Errorf("Expected no entries from a nil trail, got %v, %v", entries, err)
	}
}

func TestReadEntries_MissingFile(t *testing.T) {
	trail := newTestTrail(t)

	entries, err := trail.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries, got %v", entries)
	}
}

func TestNewEntry(t *testing.T) {
	original := configs.UserHunaSettings
	configs.UserHunaSettings = &configs.UserSettings{Username: "bob", DataPath: t.TempDir()}
	defer func() {
		configs.UserHunaSettings = original
	}()

	entry := NewEntry("decrypt")
	if entry.User != "bob" {
		t.Errorf("Expected user bob, got %s", entry.User)
	}
	if entry.Operation != "decrypt" {
		t.Errorf("Expected operation decrypt, got %s", entry.Operation)
	}
	if entry.ID == "" || entry.ID == NewEntry("decrypt").ID {
		t.Errorf("Expected a fresh id per entry, got %q", entry.ID)
	}

	trail := NewTrail()
	if trail.Path != filepath.Join(configs.UserHunaSettings.DataPath, "audit.jsonl") {
		t.Errorf("Unexpected trail path %s", trail.Path)
	}
}

func TestParseEntries_ValidData(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.123456Z","user":"alice","op":"encrypt"}
{"ts":"2024-01-15T10:35:00.456789Z","user":"bob","op":"decrypt"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].User != "alice" {
		t.Errorf("Expected first user alice, got %s", entries[0].User)
	}
	if entries[1].User != "bob" {
		t.Errorf("Expected second user bob, got %s", entries[1].User)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.123456Z","user":"alice","op":"encrypt"}
this is not valid json
{"ts":"2024-01-15T10:35:00.456789Z","user":"bob","op":"decrypt"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries (malformed should be skipped), got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries([]byte{})
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if entries != nil {
		t.Errorf("Expected nil entries for empty data, got %v", entries)
	}
}
