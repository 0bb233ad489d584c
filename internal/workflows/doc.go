// Package workflows provides high-level orchestration for huna commands.
//
// Workflows coordinate the charset, content, secrets, container, fileio and
// audit packages to implement complete user-facing features, independent
// of CLI concerns like flag parsing, spinners and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Obtains the password from a secrets.PasswordSource
//   - Calls the appropriate Engine method
//   - Formats the result for display
//
// The Engine handles everything else:
//   - Classifying files as encrypted or plaintext
//   - Refusing transforms that do not match the file's state
//   - Performing the transform and writing the result
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - EncryptFile, DecryptFile: transform one file in place
//   - EncryptDirectory, DecryptDirectory: walk a tree and transform every
//     eligible file, collecting per-file failures in BatchStats
//   - Open, Save: decrypt to memory for previews, encrypt caller content
//     without writing plaintext
//   - Status: classify a directory with header-only reads
//   - Log: query the audit trail
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	_, err := engine.EncryptFile(ctx, path, password)
//	if errors.Is(err, kerrors.ErrAlreadyEncrypted) {
//	    // Nothing to do
//	}
//
// # Context Usage
//
// All workflow methods accept a context.Context as their first parameter.
// Batch walks check it between files, never in the middle of one.
package workflows
