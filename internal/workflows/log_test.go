package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/huna/internal/audit"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

func seedAudit(t *testing.T, e *Engine) {
	t.Helper()
	entries := []audit.Entry{
		{Timestamp: "2024-01-10T09:00:00.000000Z", Operation: "encrypt", Path: "/home/u/docs", Encrypted: 3, Skipped: 2},
		{Timestamp: "2024-01-15T10:30:00.000000Z", Operation: "decrypt", Path: "/home/u/docs/a.txt", Files: []string{"/home/u/docs/a.txt"}},
		{Timestamp: "2024-01-20T18:45:00.000000Z", Operation: "save", Path: "/home/u/notes.txt", Files: []string{"/home/u/notes.txt"}},
		{Timestamp: "2024-01-21T08:00:00.000000Z", Operation: "decrypt", Path: "/home/u/x.txt", Error: "decryption_failed", Failed: 1},
	}
	for _, entry := range entries {
		e.Audit.Log(entry)
	}
}

func TestLogFilters(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	seedAudit(t, e)

	tests := []struct {
		name string
		opts LogOptions
		want []string
	}{
		{"all", LogOptions{}, []string{"encrypt", "decrypt", "save", "decrypt"}},
		{"operations", LogOptions{Operations: "decrypt, SAVE"}, []string{"decrypt", "save", "decrypt"}},
		{"path", LogOptions{Path: "docs"}, []string{"encrypt", "decrypt"}},
		{"since", LogOptions{Since: "2024-01-15"}, []string{"decrypt", "save", "decrypt"}},
		{"until includes whole day", LogOptions{Until: "2024-01-15"}, []string{"encrypt", "decrypt"}},
		{"limit keeps most recent", LogOptions{Limit: 2}, []string{"save", "decrypt"}},
		{"reverse with limit", LogOptions{Reverse: true, Limit: 2}, []string{"decrypt", "save"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Log(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, 4, result.TotalEntriesBeforeFilter)

			ops := make([]string, 0, len(result.Entries))
			for _, entry := range result.Entries {
				ops = append(ops, entry.Operation)
			}
			assert.Equal(t, tt.want, ops)
		})
	}
}

func TestLogInvalidDate(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Log(context.Background(), LogOptions{Since: "15/01/2024"})
	assert.True(t, errors.Is(err, kerrors.ErrValidation))
}

func TestLogWithoutTrail(t *testing.T) {
	e := newTestEngine(t)
	e.Audit = nil

	result, err := e.Log(context.Background(), LogOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
}

func TestFormatDetails(t *testing.T) {
	assert.Equal(t, "3 encrypted, 2 skipped", FormatDetails(audit.Entry{Operation: "encrypt", Encrypted: 3, Skipped: 2}))
	assert.Equal(t, "1 decrypted, 0 skipped, 1 failed", FormatDetails(audit.Entry{Operation: "decrypt", Decrypted: 1, Failed: 1}))
	assert.Equal(t, "1 file", FormatDetails(audit.Entry{Operation: "save", Files: []string{"a"}}))
	assert.Equal(t, "failed: not_encrypted", FormatDetails(audit.Entry{Operation: "decrypt", Error: "not_encrypted"}))
	assert.Equal(t, "2024-01-15 10:30:00", FormatDateTime("2024-01-15T10:30:00.000000Z"))
}
