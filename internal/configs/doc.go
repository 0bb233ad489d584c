// Package configs manages huna's user configuration.
//
// Configuration is a single TOML file at <user config dir>/huna/config.toml.
// A missing file is not an error: defaults apply and `huna config init`
// writes them out for editing.
//
// # Sections
//
//	[limits]  size ceilings for full reads, in-memory transforms and header scans
//	[walk]    doublestar patterns excluded from directory batches
//	[writes]  whether files are replaced through a temp file and rename
//	[audit]   whether operations are appended to the audit trail
//
// # Settings
//
// UserHunaSettings holds the resolved paths for the current user and is
// populated once at startup. Tests may replace it.
package configs
