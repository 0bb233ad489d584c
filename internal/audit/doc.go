// Package audit provides audit trail logging for huna operations.
//
// Every encrypt, decrypt and in-memory save is recorded in a per-user
// audit log, so users can see which files were transformed and when.
// Previews are not logged.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	$XDG_DATA_HOME/huna/audit.jsonl
//
// Each entry contains:
//   - A random UUID
//   - Timestamp (microseconds, UTC)
//   - OS user name
//   - Operation name and target path
//   - Operation-specific details (files, batch counts, dry run)
//
// # Usage
//
//	entry := audit.NewEntry("encrypt")
//	entry.Path = path
//	trail.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
