package container

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/PolarWolf314/huna/internal/charset"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

const (
	// Marker identifies an encrypted file. It must appear at offset 0.
	Marker = "[HUNA-ENCRYPTED]"

	// FormatVersion is the metadata revision written by Build.
	FormatVersion = 1
)

var marker = []byte(Marker)

// Metadata describes the plaintext sealed inside a container.
type Metadata struct {
	Filename  string `json:"filename"`
	Encoding  string `json:"encoding"`
	Version   int    `json:"version"`
	Signature string `json:"signature"`
}

// Container is a fully parsed envelope.
type Container struct {
	Metadata Metadata
	Payload  []byte
}

// Header is the result of parsing only the leading bytes of a container.
// PayloadOffset is the length of the marker plus the metadata block.
type Header struct {
	Metadata      Metadata
	PayloadOffset int
}

// NewMetadata describes raw, the plaintext exactly as stored on disk.
func NewMetadata(filename, encoding string, raw []byte) Metadata {
	return Metadata{
		Filename:  filename,
		Encoding:  encoding,
		Version:   FormatVersion,
		Signature: Sign(raw),
	}
}

// Sign returns the hex SHA-256 digest of raw.
func Sign(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Verify checks that raw is the plaintext the metadata was built for.
// A mismatch after a successful decryption means the password was wrong.
func (m Metadata) Verify(raw []byte) error {
	if Sign(raw) != m.Signature {
		return fmt.Errorf("%w: content signature mismatch", kerrors.ErrDecryptionFailed)
	}
	return nil
}

func (m Metadata) validate() error {
	if m.Version < 1 || m.Version > FormatVersion {
		return fmt.Errorf("unsupported format version %d", m.Version)
	}
	if !charset.IsSupported(m.Encoding) {
		return fmt.Errorf("unknown encoding %q", m.Encoding)
	}
	if len(m.Signature) != sha256.Size*2 {
		return fmt.Errorf("malformed signature")
	}
	if _, err := hex.DecodeString(m.Signature); err != nil {
		return fmt.Errorf("malformed signature")
	}
	return nil
}

// Build serializes meta and concatenates marker, metadata and payload.
func Build(meta Metadata, payload []byte) ([]byte, error) {
	if err := meta.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrValidation, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", kerrors.ErrValidation)
	}

	block, err := encodeMetadata(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrValidation, err)
	}

	out := make([]byte, 0, len(marker)+len(block)+len(payload))
	out = append(out, marker...)
	out = append(out, block...)
	out = append(out, payload...)
	return out, nil
}

// encodeMetadata writes compact JSON whose only literal braces are the
// outer ones.
func encodeMetadata(meta Metadata) ([]byte, error) {
	body, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	inner := body[1 : len(body)-1]
	inner = bytes.ReplaceAll(inner, []byte("{"), []byte(`\u007b`))
	inner = bytes.ReplaceAll(inner, []byte("}"), []byte(`\u007d`))

	block := make([]byte, 0, len(inner)+2)
	block = append(block, '{')
	block = append(block, inner...)
	block = append(block, '}')
	return block, nil
}

// HasMarker reports whether prefix starts with the complete marker.
func HasMarker(prefix []byte) bool {
	return bytes.HasPrefix(prefix, marker)
}

// Parse splits a complete file into metadata and payload.
func Parse(data []byte) (*Container, error) {
	h, err := parse(data)
	if errors.Is(err, kerrors.ErrHeaderIncomplete) {
		return nil, fmt.Errorf("%w: metadata block is not terminated", kerrors.ErrCorruptedMetadata)
	}
	if err != nil {
		return nil, err
	}

	return &Container{
		Metadata: h.Metadata,
		Payload:  data[h.PayloadOffset:],
	}, nil
}

// ParseHeader classifies a file from its leading bytes. ErrHeaderIncomplete
// means the prefix ended inside the metadata block and a longer prefix
// should be tried.
func ParseHeader(prefix []byte) (*Header, error) {
	return parse(prefix)
}

func parse(data []byte) (*Header, error) {
	if !HasMarker(data) {
		return nil, kerrors.ErrNotEncrypted
	}

	rest := data[len(marker):]
	if len(rest) == 0 {
		return nil, kerrors.ErrHeaderIncomplete
	}
	if rest[0] != '{' {
		return nil, fmt.Errorf("%w: metadata block must start with '{'", kerrors.ErrCorruptedMetadata)
	}

	end := bytes.IndexByte(rest, '}')
	if end < 0 {
		return nil, kerrors.ErrHeaderIncomplete
	}
	block := rest[:end+1]

	var meta Metadata
	dec := json.NewDecoder(bytes.NewReader(block))
	if err := dec.Decode(&meta); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: metadata block is not terminated", kerrors.ErrCorruptedMetadata)
		}
		return nil, fmt.Errorf("%w: %v", kerrors.ErrCorruptedMetadata, err)
	}
	if dec.InputOffset() != int64(len(block)) {
		return nil, fmt.Errorf("%w: trailing bytes in metadata block", kerrors.ErrCorruptedMetadata)
	}
	if err := meta.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrCorruptedMetadata, err)
	}

	return &Header{
		Metadata:      meta,
		PayloadOffset: len(marker) + len(block),
	}, nil
}
