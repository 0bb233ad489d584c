// Package utils provides shared helpers for the huna CLI.
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - RelativeTo: shortens a path relative to a base for display
//
// # I/O Utilities
//
//   - ReadStdin: reads all piped data from standard input
//   - ReadFirstLine: reads one line, without its terminator, from a reader
//
// # Terminal Utilities
//
//   - ReadPassphrase: prompts for a secret without echo
//   - IsTerminal: checks whether stdin is a terminal
package utils
