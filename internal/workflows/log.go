package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/huna/internal/audit"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/ui"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Path filters entries whose path contains this substring.
	Path string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit trail. A missing trail yields no entries.
//
// Returns ErrValidation if a date is not in YYYY-MM-DD format.
func (e *Engine) Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var since, until time.Time
	if opts.Since != "" {
		t, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrValidation)
		}
		since = t
	}
	if opts.Until != "" {
		t, err := time.Parse("2006-01-02", opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrValidation)
		}
		// Include the entire day by setting to end of day.
		until = t.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := e.Audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("%w: reading audit log: %w", kerrors.ErrFileSystem, err)
	}

	result := &LogResult{
		TotalEntriesBeforeFilter: len(entries),
	}

	filtered := entries

	if opts.Operations != "" {
		ops := strings.Split(opts.Operations, ",")
		for i := range ops {
			ops[i] = strings.TrimSpace(ops[i])
		}
		filtered = filterByOperations(filtered, ops)
	}

	if opts.Path != "" {
		filtered = filterByPath(filtered, opts.Path)
	}

	if !since.IsZero() {
		filtered = filterTime(filtered, func(t time.Time) bool { return !t.Before(since) })
	}

	if !until.IsZero() {
		filtered = filterTime(filtered, func(t time.Time) bool { return !t.After(until) })
	}

	// Apply ordering.
	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// Apply limit.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			// When reversed, limit takes first N (most recent).
			filtered = filtered[:opts.Limit]
		} else {
			// When not reversed, limit takes last N (most recent).
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

// filterByOperations filters entries by operation types.
func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool)
	for _, op := range ops {
		opSet[strings.ToLower(op)] = true
	}

	var result []audit.Entry
	for _, e := range entries {
		if opSet[strings.ToLower(e.Operation)] {
			result = append(result, e)
		}
	}
	return result
}

func filterByPath(entries []audit.Entry, path string) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if strings.Contains(e.Path, path) {
			result = append(result, e)
		}
	}
	return result
}

// filterTime keeps entries whose timestamp parses and satisfies keep.
func filterTime(entries []audit.Entry, keep func(time.Time) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		t, err := parseTimestamp(e.Timestamp)
		if err != nil {
			continue
		}
		if keep(t) {
			result = append(result, e)
		}
	}
	return result
}

func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		// Try alternate format.
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails formats the details for a log entry.
func FormatDetails(e audit.Entry) string {
	if e.Error != "" {
		return "failed: " + e.Error
	}

	switch e.Operation {
	case "encrypt", "decrypt":
		if e.Encrypted+e.Decrypted+e.Skipped+e.Failed == 0 {
			return ui.Count(len(e.Files), "file", "files")
		}
		details := fmt.Sprintf("%d %sed, %d skipped", e.Encrypted+e.Decrypted, e.Operation, e.Skipped)
		if e.Failed > 0 {
			details += fmt.Sprintf(", %d failed", e.Failed)
		}
		return details
	case "save":
		return ui.Count(len(e.Files), "file", "files")
	default:
		return ""
	}
}
