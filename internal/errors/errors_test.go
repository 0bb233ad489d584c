package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"validation", fmt.Errorf("%w: password is required", ErrValidation), KindValidation},
		{"already encrypted", ErrAlreadyEncrypted, KindAlreadyEncrypted},
		{"not encrypted", fmt.Errorf("reading notes.txt: %w", ErrNotEncrypted), KindNotEncrypted},
		{"corrupted", fmt.Errorf("%w: unexpected end of JSON input", ErrCorruptedMetadata), KindCorruptedMetadata},
		{"header incomplete", ErrHeaderIncomplete, KindCorruptedMetadata},
		{"decryption", fmt.Errorf("%w: bad padding", ErrDecryptionFailed), KindDecryptionFailed},
		{"size", fmt.Errorf("%w: 101 bytes > 100 bytes", ErrSizeExceeded), KindSizeExceeded},
		{"file system", fmt.Errorf("%w: permission denied", ErrFileSystem), KindFileSystem},
		{"cancelled", fmt.Errorf("walking: %w", context.Canceled), KindCancelled},
		{"foreign", fmt.Errorf("something else"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKindMarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Kind Kind `json:"kind"`
	}{KindDecryptionFailed})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"kind":"decryption_failed"}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestIsStateMismatch(t *testing.T) {
	if !KindAlreadyEncrypted.IsStateMismatch() || !KindNotEncrypted.IsStateMismatch() {
		t.Error("state refusals should report IsStateMismatch")
	}
	if KindDecryptionFailed.IsStateMismatch() {
		t.Error("decryption failure is not a state mismatch")
	}
}

func TestMessage(t *testing.T) {
	if Message(nil) != "" {
		t.Error("Message(nil) should be empty")
	}

	msg := Message(fmt.Errorf("%w: open /tmp/x: permission denied", ErrFileSystem))
	if !strings.HasPrefix(msg, "File system error: ") || !strings.Contains(msg, "permission denied") {
		t.Errorf("file system message should keep the original cause, got %q", msg)
	}

	msg = Message(fmt.Errorf("%w: cipher: bad padding", ErrDecryptionFailed))
	if strings.Contains(msg, "padding") {
		t.Errorf("decryption message should not leak cipher detail, got %q", msg)
	}
}
