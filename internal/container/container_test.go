package container

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

var testPayload = []byte("0123456789abcdef0123456789abcdef-cipher-}-bytes")

func build(t *testing.T, filename, encoding string) ([]byte, Metadata) {
	t.Helper()
	meta := NewMetadata(filename, encoding, []byte("Hello World"))
	data, err := Build(meta, testPayload)
	require.NoError(t, err)
	return data, meta
}

func TestBuildParseRoundTrip(t *testing.T) {
	data, meta := build(t, "hello.txt", "utf-8")

	assert.True(t, bytes.HasPrefix(data, []byte(Marker)))

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, meta, c.Metadata)
	assert.Equal(t, testPayload, c.Payload)
	assert.Equal(t, FormatVersion, c.Metadata.Version)
}

func TestBuildWireFormat(t *testing.T) {
	meta := NewMetadata("a.bin", "binary", []byte{0x01})
	data, err := Build(meta, []byte{0xAA})
	require.NoError(t, err)

	want := Marker + `{"filename":"a.bin","encoding":"binary","version":1,"signature":"` + meta.Signature + `"}` + "\xaa"
	assert.Equal(t, want, string(data))
}

func TestBracesInFilename(t *testing.T) {
	data, meta := build(t, "{draft} notes}.txt", "utf-8")

	end := bytes.IndexByte(data[len(Marker):], '}')
	block := data[len(Marker) : len(Marker)+end+1]
	assert.Equal(t, 1, bytes.Count(block, []byte("{")), "only the opening brace is literal")

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, meta.Filename, c.Metadata.Filename)
	assert.Equal(t, testPayload, c.Payload)
}

func TestDetectionBoundary(t *testing.T) {
	data, _ := build(t, "hello.txt", "utf-8")

	assert.True(t, HasMarker(data))
	assert.True(t, HasMarker([]byte(Marker)))

	tests := []struct {
		name string
		data []byte
	}{
		{"missing last marker byte", append([]byte(Marker[:len(Marker)-1]), data[len(Marker):]...)},
		{"missing first marker byte", data[1:]},
		{"leading space", append([]byte(" "), data...)},
		{"lowercase marker", append([]byte(strings.ToLower(Marker)), data[len(Marker):]...)},
		{"empty", nil},
		{"plain text", []byte("Hello World")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, HasMarker(tt.data))

			_, err := Parse(tt.data)
			assert.True(t, errors.Is(err, kerrors.ErrNotEncrypted), "got %v", err)

			_, err = ParseHeader(tt.data)
			assert.True(t, errors.Is(err, kerrors.ErrNotEncrypted), "got %v", err)
		})
	}
}

func TestHeaderOnlyEquivalence(t *testing.T) {
	data, _ := build(t, "{x}.txt", "windows-1252")

	full, err := Parse(data)
	require.NoError(t, err)

	offset := len(data) - len(full.Payload)
	for n := offset; n <= len(data); n++ {
		h, err := ParseHeader(data[:n])
		require.NoError(t, err, "prefix length %d", n)
		assert.Equal(t, full.Metadata, h.Metadata)
		assert.Equal(t, offset, h.PayloadOffset)
	}
}

func TestParseHeaderIncomplete(t *testing.T) {
	data, _ := build(t, "hello.txt", "utf-8")
	full, err := Parse(data)
	require.NoError(t, err)
	offset := len(data) - len(full.Payload)

	for n := len(Marker); n < offset; n++ {
		_, err := ParseHeader(data[:n])
		assert.True(t, errors.Is(err, kerrors.ErrHeaderIncomplete), "prefix length %d: %v", n, err)
	}
}

func TestParseCorrupted(t *testing.T) {
	sig := Sign([]byte("x"))
	tests := []struct {
		name string
		data string
	}{
		{"not json", Marker + `{filename:hello}payload`},
		{"unterminated", Marker + `{"filename":"hello.txt","encoding":"utf-8"`},
		{"marker only", Marker},
		{"no object", Marker + `"filename"}`},
		{"future version", Marker + `{"filename":"a","encoding":"utf-8","version":2,"signature":"` + sig + `"}p`},
		{"unknown encoding", Marker + `{"filename":"a","encoding":"ebcdic","version":1,"signature":"` + sig + `"}p`},
		{"bad signature", Marker + `{"filename":"a","encoding":"utf-8","version":1,"signature":"zz"}p`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, kerrors.ErrCorruptedMetadata), "got %v", err)
			assert.Equal(t, kerrors.KindCorruptedMetadata, kerrors.KindOf(err))
		})
	}
}

func TestBuildValidation(t *testing.T) {
	meta := NewMetadata("a.txt", "utf-8", []byte("a"))

	_, err := Build(meta, nil)
	assert.True(t, errors.Is(err, kerrors.ErrValidation))

	bad := meta
	bad.Encoding = "klingon"
	_, err = Build(bad, testPayload)
	assert.True(t, errors.Is(err, kerrors.ErrValidation))
}

func TestVerify(t *testing.T) {
	meta := NewMetadata("a.txt", "utf-8", []byte("Hello World"))

	assert.NoError(t, meta.Verify([]byte("Hello World")))

	err := meta.Verify([]byte("Hello world"))
	assert.True(t, errors.Is(err, kerrors.ErrDecryptionFailed))
}
