package errors

import (
	"context"
	"encoding/json"
	"errors"
)

// Validation errors are raised before any I/O or cipher call.
var (
	// ErrValidation indicates a missing path, password or content.
	ErrValidation = errors.New("validation failed")
)

// State errors indicate the file is not in the state the operation expects.
var (
	// ErrAlreadyEncrypted indicates the file already carries the container marker.
	ErrAlreadyEncrypted = errors.New("file is already encrypted")

	// ErrNotEncrypted indicates the file does not carry the container marker.
	ErrNotEncrypted = errors.New("file is not encrypted")
)

// Container errors indicate a damaged or partially read metadata block.
var (
	// ErrCorruptedMetadata indicates the marker is present but the metadata is unusable.
	ErrCorruptedMetadata = errors.New("encrypted file metadata is corrupted")

	// ErrHeaderIncomplete indicates the metadata block did not close within the bytes read.
	// Reading a larger prefix may succeed.
	ErrHeaderIncomplete = errors.New("metadata block exceeds header read size")
)

// Cryptographic errors indicate failures during decryption.
var (
	// ErrDecryptionFailed indicates a wrong password or damaged cipher bytes.
	// The two causes cannot be told apart.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Resource errors.
var (
	// ErrSizeExceeded indicates the file is larger than the applicable ceiling.
	ErrSizeExceeded = errors.New("file exceeds size limit")

	// ErrFileSystem indicates an underlying read, write or permission failure.
	ErrFileSystem = errors.New("file system error")
)

// Kind classifies an error into the closed taxonomy.
type Kind int

const (
	// KindUnknown is any error outside the taxonomy, including nil.
	KindUnknown Kind = iota
	KindValidation
	KindAlreadyEncrypted
	KindNotEncrypted
	KindCorruptedMetadata
	KindDecryptionFailed
	KindSizeExceeded
	KindFileSystem
	KindCancelled
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindValidation:        "validation",
	KindAlreadyEncrypted:  "already_encrypted",
	KindNotEncrypted:      "not_encrypted",
	KindCorruptedMetadata: "corrupted_metadata",
	KindDecryptionFailed:  "decryption_failed",
	KindSizeExceeded:      "size_exceeded",
	KindFileSystem:        "file_system",
	KindCancelled:         "cancelled",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON implements json.Marshaler for Kind.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// IsStateMismatch reports whether the kind is a refusal caused by the file
// already being in, or not being in, the encrypted state.
func (k Kind) IsStateMismatch() bool {
	return k == KindAlreadyEncrypted || k == KindNotEncrypted
}

// KindOf returns the taxonomy kind of err.
// ErrHeaderIncomplete classifies as corrupted metadata once it escapes the reader.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrAlreadyEncrypted):
		return KindAlreadyEncrypted
	case errors.Is(err, ErrNotEncrypted):
		return KindNotEncrypted
	case errors.Is(err, ErrCorruptedMetadata), errors.Is(err, ErrHeaderIncomplete):
		return KindCorruptedMetadata
	case errors.Is(err, ErrDecryptionFailed):
		return KindDecryptionFailed
	case errors.Is(err, ErrSizeExceeded):
		return KindSizeExceeded
	case errors.Is(err, ErrFileSystem):
		return KindFileSystem
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindUnknown
	}
}

// Message renders err as a human-readable sentence for the CLI.
func Message(err error) string {
	if err == nil {
		return ""
	}

	detail := err.Error()
	switch KindOf(err) {
	case KindValidation:
		return "Invalid input: " + detail
	case KindAlreadyEncrypted:
		return "The file is already encrypted"
	case KindNotEncrypted:
		return "The file is not encrypted"
	case KindCorruptedMetadata:
		return "The encrypted file header is damaged and cannot be read"
	case KindDecryptionFailed:
		return "Decryption failed: the password is wrong or the file is damaged"
	case KindSizeExceeded:
		return "The file is too large: " + detail
	case KindFileSystem:
		return "File system error: " + detail
	case KindCancelled:
		return "The operation was cancelled"
	default:
		return detail
	}
}
