package content

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/PolarWolf314/huna/internal/charset"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

// Content is plaintext in one of two forms: Binary or Text.
type Content interface {
	isContent()
}

// Binary is content with no text interpretation.
type Binary struct {
	Data []byte
}

// Text is decoded text together with the encoding of its on-disk bytes.
type Text struct {
	Value    string
	Encoding string
}

func (Binary) isContent() {}
func (Text) isContent()   {}

// FromBytes classifies raw on-disk bytes.
func FromBytes(raw []byte) Content {
	enc := charset.Detect(raw)
	if enc == charset.Binary {
		return Binary{Data: raw}
	}

	value, err := charset.Decode(raw, enc)
	if err != nil {
		return Binary{Data: raw}
	}
	back, err := charset.Encode(value, enc)
	if err != nil || !bytes.Equal(back, raw) {
		return Binary{Data: raw}
	}
	return Text{Value: value, Encoding: enc}
}

// FromTagged rebuilds content from raw bytes whose encoding is already known.
func FromTagged(raw []byte, encoding string) (Content, error) {
	if encoding == charset.Binary {
		return Binary{Data: raw}, nil
	}
	value, err := charset.Decode(raw, encoding)
	if err != nil {
		return nil, err
	}
	return Text{Value: value, Encoding: encoding}, nil
}

// FromText wraps a UTF-8 string to be stored in the given encoding.
func FromText(value, encoding string) (Content, error) {
	if !charset.IsSupported(encoding) || encoding == charset.Binary {
		return nil, fmt.Errorf("%w: unsupported text encoding %q", kerrors.ErrValidation, encoding)
	}
	return Text{Value: value, Encoding: encoding}, nil
}

// Raw returns the bytes as they are, or would be, stored on disk.
func Raw(c Content) ([]byte, error) {
	switch v := c.(type) {
	case Binary:
		return v.Data, nil
	case Text:
		out, err := charset.Encode(v.Value, v.Encoding)
		if err != nil {
			return nil, fmt.Errorf("%w: text cannot be represented in %s", kerrors.ErrValidation, v.Encoding)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: no content", kerrors.ErrValidation)
	}
}

// Payload returns the bytes handed to the cipher. Text is always UTF-8.
func Payload(c Content) []byte {
	switch v := c.(type) {
	case Binary:
		return v.Data
	case Text:
		return []byte(v.Value)
	default:
		return nil
	}
}

// FromPayload reverses Payload using the encoding tag stored next to the
// cipher bytes. A text payload that is not UTF-8 means the decryption
// produced garbage.
func FromPayload(payload []byte, encoding string) (Content, error) {
	if encoding == charset.Binary {
		return Binary{Data: payload}, nil
	}
	if !charset.IsSupported(encoding) {
		return nil, fmt.Errorf("%w: unknown encoding %q", kerrors.ErrCorruptedMetadata, encoding)
	}
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: text payload is not valid utf-8", kerrors.ErrDecryptionFailed)
	}
	return Text{Value: string(payload), Encoding: encoding}, nil
}

// IsBinary reports whether c is Binary.
func IsBinary(c Content) bool {
	_, ok := c.(Binary)
	return ok
}

// EncodingOf returns the encoding tag of c, charset.Binary for binary content.
func EncodingOf(c Content) string {
	if t, ok := c.(Text); ok {
		return t.Encoding
	}
	return charset.Binary
}

// Len returns the number of on-disk bytes of c, or the UTF-8 length for
// text that cannot be encoded.
func Len(c Content) int {
	switch v := c.(type) {
	case Binary:
		return len(v.Data)
	case Text:
		if raw, err := Raw(v); err == nil {
			return len(raw)
		}
		return len(v.Value)
	default:
		return 0
	}
}
