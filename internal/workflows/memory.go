package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/huna/internal/container"
	"github.com/PolarWolf314/huna/internal/content"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/fileio"
)

// Preview is the decrypted content of a file, held only in memory.
type Preview struct {
	// Content is the plaintext, Binary or Text.
	Content content.Content

	// MimeType is resolved from the original filename stored in the container.
	MimeType string

	IsBinary bool

	Metadata container.Metadata
}

// Open decrypts the file at path without writing anything. The file must
// fit within the in-memory ceiling.
//
// Returns ErrNotEncrypted if the file is plaintext.
// Returns ErrSizeExceeded if the file is larger than MaxMemorySize.
// Returns ErrDecryptionFailed for a wrong password or damaged cipher bytes.
func (e *Engine) Open(ctx context.Context, path, password string) (*Preview, error) {
	if err := validate(ctx, path, password); err != nil {
		return nil, err
	}

	res, err := e.IO.Read(path, fileio.ReadOptions{InMemory: true})
	if err != nil {
		return nil, err
	}
	if !res.IsEncrypted {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotEncrypted, path)
	}

	c, _, err := open(*res.Metadata, res.Payload, password)
	if err != nil {
		return nil, err
	}

	return &Preview{
		Content:  c,
		MimeType: fileio.MimeType(res.Metadata.Filename),
		IsBinary: content.IsBinary(c),
		Metadata: *res.Metadata,
	}, nil
}

// Save encrypts caller-supplied bytes and writes only the envelope to
// path. The plaintext never reaches the disk. Text detection runs on raw
// exactly as it would for a file read.
func (e *Engine) Save(ctx context.Context, path string, raw []byte, password string) (*FileResult, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: content is empty", kerrors.ErrValidation)
	}
	return e.SaveContent(ctx, path, content.FromBytes(raw), password)
}

// SaveContent is Save for content that is already classified, such as
// text edited from a Preview that must keep its original encoding.
func (e *Engine) SaveContent(ctx context.Context, path string, c content.Content, password string) (*FileResult, error) {
	if err := validate(ctx, path, password); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: content is required", kerrors.ErrValidation)
	}
	if size := int64(content.Len(c)); size > e.IO.Limits.MaxMemorySize {
		return nil, fmt.Errorf("%w: content is %d bytes, limit is %d", kerrors.ErrSizeExceeded, size, e.IO.Limits.MaxMemorySize)
	}

	result, err := e.seal(path, c, password)
	e.auditFile("save", path, result, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}
