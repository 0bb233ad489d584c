// Package errors provides typed error values for huna.
//
// Every failure that crosses a package boundary wraps one of the sentinels
// declared here, so callers classify errors with errors.Is() or KindOf()
// instead of matching on message text.
//
// # Error Categories
//
// The taxonomy is closed:
//
//   - Validation: missing path, password or content (ErrValidation)
//   - State mismatch: the file is already in the requested state
//     (ErrAlreadyEncrypted, ErrNotEncrypted)
//   - Container: the marker is present but the metadata block is unusable
//     (ErrCorruptedMetadata, ErrHeaderIncomplete)
//   - Crypto: wrong password or damaged cipher bytes (ErrDecryptionFailed)
//   - Limits: the file is larger than the applicable ceiling (ErrSizeExceeded)
//   - File system: read, write or permission failures (ErrFileSystem)
//
// # Usage
//
// Wrap the sentinel and keep the original cause in the message:
//
//	return fmt.Errorf("%w: %v", errors.ErrFileSystem, err)
//
// Present an error to the user:
//
//	fmt.Println(errors.Message(err))
package errors
