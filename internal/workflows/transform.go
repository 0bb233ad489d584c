package workflows

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/PolarWolf314/huna/internal/audit"
	"github.com/PolarWolf314/huna/internal/container"
	"github.com/PolarWolf314/huna/internal/content"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/fileio"
	"github.com/PolarWolf314/huna/internal/secrets"
)

// EncryptFile encrypts the file at path in place.
//
// Returns ErrValidation if the path or password is empty, or the file is empty.
// Returns ErrAlreadyEncrypted if the file carries the container marker; the
// file is left untouched.
// Returns ErrSizeExceeded if the file is larger than the configured ceiling.
func (e *Engine) EncryptFile(ctx context.Context, path, password string) (*FileResult, error) {
	if err := validate(ctx, path, password); err != nil {
		return nil, err
	}

	result, err := e.encryptFile(path, password)
	e.auditFile("encrypt", path, result, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DecryptFile decrypts the file at path in place, restoring the exact
// bytes that were encrypted.
//
// Returns ErrNotEncrypted if the file does not carry the container marker.
// Returns ErrCorruptedMetadata if the container header cannot be parsed.
// Returns ErrDecryptionFailed for a wrong password or damaged cipher bytes;
// the file is left untouched.
func (e *Engine) DecryptFile(ctx context.Context, path, password string) (*FileResult, error) {
	if err := validate(ctx, path, password); err != nil {
		return nil, err
	}

	result, err := e.decryptFile(path, password)
	e.auditFile("decrypt", path, result, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) encryptFile(path, password string) (*FileResult, error) {
	res, err := e.IO.Read(path, fileio.ReadOptions{})
	if err != nil {
		return nil, err
	}
	if res.IsEncrypted {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrAlreadyEncrypted, path)
	}

	return e.seal(path, res.Content, password)
}

// seal encrypts c and writes the envelope to path. The container stores
// the base name of path and the signature of the on-disk plaintext.
func (e *Engine) seal(path string, c content.Content, password string) (*FileResult, error) {
	raw, err := content.Raw(c)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", kerrors.ErrValidation, path)
	}

	e.Logger.Debugf("Encrypting %s as %s", path, content.EncodingOf(c))

	sealed, err := secrets.Encrypt(content.Payload(c), password)
	if err != nil {
		return nil, err
	}

	meta := container.NewMetadata(filepath.Base(path), content.EncodingOf(c), raw)
	n, err := e.IO.WriteEncrypted(path, meta, sealed)
	if err != nil {
		return nil, err
	}

	return &FileResult{Path: path, Size: n, Encoding: meta.Encoding}, nil
}

func (e *Engine) decryptFile(path, password string) (*FileResult, error) {
	res, err := e.IO.Read(path, fileio.ReadOptions{})
	if err != nil {
		return nil, err
	}
	if !res.IsEncrypted {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotEncrypted, path)
	}

	c, raw, err := open(*res.Metadata, res.Payload, password)
	if err != nil {
		return nil, err
	}

	e.Logger.Debugf("Decrypted %s (%s, %d bytes)", path, content.EncodingOf(c), len(raw))

	n, err := e.IO.WriteRaw(path, raw)
	if err != nil {
		return nil, err
	}
	return &FileResult{Path: path, Size: n, Encoding: res.Metadata.Encoding}, nil
}

// open decrypts a payload and rebuilds the original content, checking it
// against the stored signature.
func open(meta container.Metadata, payload []byte, password string) (content.Content, []byte, error) {
	plain, err := secrets.Decrypt(payload, password)
	if err != nil {
		return nil, nil, err
	}

	c, err := content.FromPayload(plain, meta.Encoding)
	if err != nil {
		return nil, nil, err
	}
	raw, err := content.Raw(c)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptionFailed, err)
	}
	if err := meta.Verify(raw); err != nil {
		return nil, nil, err
	}
	return c, raw, nil
}

func validate(ctx context.Context, path, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("%w: path is required", kerrors.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", kerrors.ErrValidation)
	}
	return nil
}

func (e *Engine) auditFile(op, path string, result *FileResult, err error) {
	if e.Audit == nil {
		return
	}
	entry := audit.NewEntry(op)
	entry.Path = path
	if err != nil {
		entry.Error = kerrors.KindOf(err).String()
		entry.Failed = 1
	} else {
		entry.Files = []string{result.Path}
	}
	e.Audit.Log(entry)
}
