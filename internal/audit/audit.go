package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/huna/internal/configs"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`   // Random UUID.
	Timestamp string `json:"ts"`   // UTC with microseconds.
	User      string `json:"user"` // OS user performing the action.
	Operation string `json:"op"`   // Operation name.
	Path      string `json:"path"` // File or directory operated on.

	// Optional fields depending on operation.
	Files     []string `json:"files,omitempty"`     // Files actually transformed.
	Encrypted int      `json:"encrypted,omitempty"` // For batch encrypt.
	Decrypted int      `json:"decrypted,omitempty"` // For batch decrypt.
	Skipped   int      `json:"skipped,omitempty"`   // Already in the target state.
	Failed    int      `json:"failed,omitempty"`    // Per-file failures.
	DryRun    bool     `json:"dry_run,omitempty"`   // Nothing was written.
	Error     string   `json:"error,omitempty"`     // Error kind of a failed single-file operation.
}

// Trail is an append-only JSON Lines file.
// A nil *Trail or one with an empty Path discards every entry.
type Trail struct {
	Path string
}

// NewTrail returns the trail stored in the user's data directory.
func NewTrail() *Trail {
	return &Trail{Path: configs.UserHunaSettings.AuditFile()}
}

// NewEntry returns an entry for op with the ID and user filled in.
func NewEntry(op string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		User:      configs.UserHunaSettings.Username,
		Operation: op,
	}
}

// Log appends an entry to the audit log.
// If logging fails, it does not return an error.
// Operations should not fail just because audit logging failed.
func (t *Trail) Log(entry Entry) {
	if t == nil || t.Path == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(t.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func (t *Trail) ReadEntries() ([]Entry, error) {
	if t == nil || t.Path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(t.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// Time parses the entry timestamp.
func (e Entry) Time() (time.Time, error) {
	return time.Parse(TimestampFormat, e.Timestamp)
}
