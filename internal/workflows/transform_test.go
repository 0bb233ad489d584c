package workflows

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/huna/internal/charset"
	"github.com/PolarWolf314/huna/internal/container"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

func TestEncryptDecryptScenario(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "hello.txt")
	writeTestFile(t, path, []byte("Hello World"))

	result, err := e.EncryptFile(ctx, path, "secret1")
	require.NoError(t, err)
	assert.Equal(t, path, result.Path)
	assert.Equal(t, charset.UTF8, result.Encoding)

	sealed := readTestFile(t, path)
	assert.Equal(t, int64(len(sealed)), result.Size)
	require.True(t, bytes.HasPrefix(sealed, []byte(container.Marker)))

	parsed, err := container.Parse(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", parsed.Metadata.Filename)
	assert.Equal(t, charset.UTF8, parsed.Metadata.Encoding)
	assert.Equal(t, container.FormatVersion, parsed.Metadata.Version)

	_, err = e.DecryptFile(ctx, path, "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrDecryptionFailed), "got %v", err)
	assert.Equal(t, sealed, readTestFile(t, path), "failed decrypt must not touch the file")

	_, err = e.DecryptFile(ctx, path, "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", string(readTestFile(t, path)))
}

func TestEncryptFileRefusesTwice(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "notes.md")
	writeTestFile(t, path, []byte("# notes\n"))

	_, err := e.EncryptFile(ctx, path, testPassword)
	require.NoError(t, err)
	first := readTestFile(t, path)

	_, err = e.EncryptFile(ctx, path, testPassword)
	assert.True(t, errors.Is(err, kerrors.ErrAlreadyEncrypted), "got %v", err)
	assert.Equal(t, first, readTestFile(t, path))
}

func TestDecryptFileRefusesPlaintext(t *testing.T) {
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "plain.txt")
	writeTestFile(t, path, []byte("plain"))

	_, err := e.DecryptFile(context.Background(), path, testPassword)
	assert.True(t, errors.Is(err, kerrors.ErrNotEncrypted), "got %v", err)
	assert.Equal(t, "plain", string(readTestFile(t, path)))
}

func TestRoundTripPreservesBytes(t *testing.T) {
	shiftJIS, err := charset.Encode("こんにちは、世界", "shift_jis")
	require.NoError(t, err)

	inputs := map[string][]byte{
		"crlf.txt":   []byte("line one\r\nline two\r\n"),
		"image.png":  {0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0x00, 0x00, 0x0d},
		"greet.txt":  shiftJIS,
		"latin1.txt": []byte("caf\xe9 cr\xe8me br\xfbl\xe9e"),
		"bom.txt":    []byte("\xef\xbb\xbfwith a byte order mark"),
		"braces.txt": []byte("{\"json\": {\"nested\": true}}"),
	}

	ctx := context.Background()
	e := newTestEngine(t)
	dir := t.TempDir()

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			writeTestFile(t, path, data)

			_, err := e.EncryptFile(ctx, path, testPassword)
			require.NoError(t, err)
			assert.NotEqual(t, data, readTestFile(t, path))

			_, err = e.DecryptFile(ctx, path, testPassword)
			require.NoError(t, err)
			assert.Equal(t, data, readTestFile(t, path))
		})
	}
}

func TestEncryptFileValidation(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.txt")
	writeTestFile(t, empty, nil)

	_, err := e.EncryptFile(ctx, empty, testPassword)
	assert.True(t, errors.Is(err, kerrors.ErrValidation), "got %v", err)

	_, err = e.EncryptFile(ctx, filepath.Join(dir, "x"), "")
	assert.True(t, errors.Is(err, kerrors.ErrValidation), "got %v", err)

	_, err = e.EncryptFile(ctx, "", testPassword)
	assert.True(t, errors.Is(err, kerrors.ErrValidation), "got %v", err)

	_, err = e.EncryptFile(ctx, filepath.Join(dir, "missing.txt"), testPassword)
	assert.Equal(t, kerrors.KindFileSystem, kerrors.KindOf(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.EncryptFile(cancelled, empty, testPassword)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEncryptFileSizeCeiling(t *testing.T) {
	e := newTestEngine(t)
	e.IO.Limits.MaxFileSize = 16

	path := filepath.Join(t.TempDir(), "big.txt")
	writeTestFile(t, path, bytes.Repeat([]byte("a"), 17))

	_, err := e.EncryptFile(context.Background(), path, testPassword)
	assert.True(t, errors.Is(err, kerrors.ErrSizeExceeded), "got %v", err)
}

func TestDecryptFileCorrupted(t *testing.T) {
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "broken.txt")
	writeTestFile(t, path, []byte(container.Marker+`{"filename":"broken.txt"`))

	_, err := e.DecryptFile(context.Background(), path, testPassword)
	assert.True(t, errors.Is(err, kerrors.ErrCorruptedMetadata), "got %v", err)
}

func TestDecryptFileDetectsTamperedPayload(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "doc.txt")
	writeTestFile(t, path, []byte("important content"))

	_, err := e.EncryptFile(ctx, path, testPassword)
	require.NoError(t, err)

	sealed := readTestFile(t, path)
	sealed[len(sealed)-20] ^= 0xff
	writeTestFile(t, path, sealed)

	_, err = e.DecryptFile(ctx, path, testPassword)
	assert.True(t, errors.Is(err, kerrors.ErrDecryptionFailed), "got %v", err)
}

func TestSingleFileAudit(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "a.txt")
	writeTestFile(t, path, []byte("a"))

	_, err := e.EncryptFile(ctx, path, testPassword)
	require.NoError(t, err)
	_, err = e.EncryptFile(ctx, path, testPassword)
	require.Error(t, err)

	entries, err := e.Audit.ReadEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "encrypt", entries[0].Operation)
	assert.Equal(t, []string{path}, entries[0].Files)
	assert.Equal(t, "already_encrypted", entries[1].Error)
}

func TestSingleFileRefusesSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated rights on Windows")
	}

	ctx := context.Background()
	e := newTestEngine(t)
	dir := t.TempDir()

	plain := filepath.Join(dir, "real.txt")
	writeTestFile(t, plain, []byte("top secret plaintext"))
	plainLink := filepath.Join(dir, "plain-link.txt")
	require.NoError(t, os.Symlink(plain, plainLink))

	sealed := filepath.Join(dir, "sealed.txt")
	writeTestFile(t, sealed, []byte("already sealed"))
	_, err := e.EncryptFile(ctx, sealed, testPassword)
	require.NoError(t, err)
	sealedBytes := readTestFile(t, sealed)
	sealedLink := filepath.Join(dir, "sealed-link.txt")
	require.NoError(t, os.Symlink(sealed, sealedLink))

	assertLinkIntact := func(link, target string, want []byte) {
		t.Helper()
		info, err := os.Lstat(link)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink, "%s was replaced", link)
		assert.Equal(t, want, readTestFile(t, target))
	}

	for _, atomic := range []bool{true, false} {
		e.IO.Atomic = atomic

		_, err = e.EncryptFile(ctx, plainLink, testPassword)
		assert.True(t, errors.Is(err, kerrors.ErrValidation), "atomic=%v: got %v", atomic, err)
		assertLinkIntact(plainLink, plain, []byte("top secret plaintext"))

		_, err = e.DecryptFile(ctx, sealedLink, testPassword)
		assert.True(t, errors.Is(err, kerrors.ErrValidation), "atomic=%v: got %v", atomic, err)
		assertLinkIntact(sealedLink, sealed, sealedBytes)

		_, err = e.Save(ctx, plainLink, []byte("new text"), testPassword)
		assert.True(t, errors.Is(err, kerrors.ErrValidation), "atomic=%v: got %v", atomic, err)
		assertLinkIntact(plainLink, plain, []byte("top secret plaintext"))
	}
}
