// Package ui provides semantic text formatting for CLI output.
//
// Formatters render with color when the terminal supports it. When NO_COLOR
// is set or the terminal doesn't support colors, text decorations
// (backticks, quotes, parentheses) are used instead.
//
// # Semantic Formatters
//
//	ui.Code.Sprint("huna files encrypt ./notes")  // Commands and code
//	ui.Path.Sprint("notes/todo.txt")              // File paths
//	ui.Success.Sprint("✓")                        // Success indicators
//	ui.Error.Sprint("✗")                          // Error indicators
//	ui.Warning.Sprint("[dry-run]")                // Warnings
//	ui.Info.Sprint("→")                           // Informational hints
//	ui.Highlight.Sprint("utf-8")                  // User values
//	ui.Muted.Sprint("binary")                     // De-emphasized text
//	ui.Locked.Sprint("encrypted")                 // Encrypted state
//	ui.Unlocked.Sprint("plaintext")               // Plaintext state
//
// Sizes are rendered with Size, which uses IEC units ("1.5 MiB").
package ui
