package fileio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/PolarWolf314/huna/internal/charset"
	"github.com/PolarWolf314/huna/internal/configs"
	"github.com/PolarWolf314/huna/internal/container"
	"github.com/PolarWolf314/huna/internal/content"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

// DefaultPerm is used for files that did not exist before the write.
const DefaultPerm fs.FileMode = 0600

// Gateway reads and writes files under a set of size limits.
type Gateway struct {
	Limits configs.Limits
	Atomic bool
}

// New builds a Gateway from the user configuration.
func New(cfg *configs.Config) *Gateway {
	return &Gateway{
		Limits: cfg.Limits,
		Atomic: cfg.Writes.Atomic,
	}
}

// ReadOptions selects the shape of a read.
type ReadOptions struct {
	// HeaderOnly parses the container header from a bounded prefix.
	HeaderOnly bool
	// InMemory applies MaxMemorySize instead of MaxFileSize.
	InMemory bool
}

// ReadResult describes a file. For encrypted files Metadata is set, and
// Payload holds the cipher bytes on a full read. For plaintext files
// Content is set on a full read and Encoding comes from the detector.
type ReadResult struct {
	Path        string
	Size        int64
	Modified    time.Time
	Perm        fs.FileMode
	MimeType    string
	IsEncrypted bool
	Encoding    string
	Metadata    *container.Metadata
	Payload     []byte
	Content     content.Content
}

// Read stats path, enforces the size ceiling and reads it as opts asks.
// Symlinks are refused rather than followed.
func (g *Gateway) Read(path string, opts ReadOptions) (*ReadResult, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", kerrors.ErrValidation)
	}

	info, err := os.Lstat(path)
	if err != nil {
		return nil, fsError(err)
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, fmt.Errorf("%w: %s is a symlink", kerrors.ErrValidation, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", kerrors.ErrValidation, path)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", kerrors.ErrValidation, path)
	}

	result := &ReadResult{
		Path:     path,
		Size:     info.Size(),
		Modified: info.ModTime(),
		Perm:     info.Mode().Perm(),
		MimeType: MimeType(path),
	}

	if opts.HeaderOnly {
		return result, g.readHeader(path, result)
	}

	limit := g.Limits.MaxFileSize
	if opts.InMemory {
		limit = g.Limits.MaxMemorySize
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", kerrors.ErrSizeExceeded, path, info.Size(), limit)
	}

	data, err := readLimited(path, limit)
	if err != nil {
		return nil, err
	}
	result.Size = int64(len(data))

	if !container.HasMarker(data) {
		c := content.FromBytes(data)
		result.Content = c
		result.Encoding = content.EncodingOf(c)
		return result, nil
	}

	parsed, err := container.Parse(data)
	if err != nil {
		return nil, err
	}
	result.IsEncrypted = true
	result.Metadata = &parsed.Metadata
	result.Encoding = parsed.Metadata.Encoding
	result.Payload = parsed.Payload
	return result, nil
}

// readLimited reads at most limit+1 bytes of path, so a file that grew
// since the stat is rejected without being held in memory.
func readLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fsError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fsError(err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is over the limit of %d bytes", kerrors.ErrSizeExceeded, path, limit)
	}
	return data, nil
}

// ReadHeader is Read with HeaderOnly set.
func (g *Gateway) ReadHeader(path string) (*ReadResult, error) {
	return g.Read(path, ReadOptions{HeaderOnly: true})
}

func (g *Gateway) readHeader(path string, result *ReadResult) error {
	f, err := os.Open(path)
	if err != nil {
		return fsError(err)
	}
	defer f.Close()

	size := g.Limits.HeaderSize
	for {
		buf := make([]byte, size)
		n, err := f.ReadAt(buf, 0)
		if err != nil && !errors.Is(err, io.EOF) {
			return fsError(err)
		}
		buf = buf[:n]

		header, err := container.ParseHeader(buf)
		switch {
		case err == nil:
			result.IsEncrypted = true
			result.Metadata = &header.Metadata
			result.Encoding = header.Metadata.Encoding
			return nil
		case errors.Is(err, kerrors.ErrNotEncrypted):
			if n < size {
				result.Encoding = charset.Detect(buf)
			} else {
				result.Encoding = charset.DetectPrefix(buf)
			}
			return nil
		case errors.Is(err, kerrors.ErrHeaderIncomplete):
			if n < size || size >= g.Limits.MaxHeaderSize {
				return fmt.Errorf("%w: metadata block not terminated within %d bytes", kerrors.ErrCorruptedMetadata, n)
			}
			size = min(size*2, g.Limits.MaxHeaderSize)
		default:
			return err
		}
	}
}

// WritePlain writes content back as plaintext in its original encoding.
func (g *Gateway) WritePlain(path string, c content.Content) (int64, error) {
	raw, err := content.Raw(c)
	if err != nil {
		return 0, err
	}
	return g.WriteRaw(path, raw)
}

// WriteEncrypted builds a container from meta and payload and writes it.
func (g *Gateway) WriteEncrypted(path string, meta container.Metadata, payload []byte) (int64, error) {
	data, err := container.Build(meta, payload)
	if err != nil {
		return 0, err
	}
	return g.WriteRaw(path, data)
}

// WriteRaw replaces the contents of path with data. A symlink at path is
// refused, so both write modes leave links and their targets alone.
func (g *Gateway) WriteRaw(path string, data []byte) (int64, error) {
	if path == "" {
		return 0, fmt.Errorf("%w: path is required", kerrors.ErrValidation)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fsError(err)
	}

	perm := DefaultPerm
	if info, err := os.Lstat(path); err == nil {
		if info.Mode()&fs.ModeSymlink != 0 {
			return 0, fmt.Errorf("%w: %s is a symlink", kerrors.ErrValidation, path)
		}
		if info.IsDir() {
			return 0, fmt.Errorf("%w: %s is a directory", kerrors.ErrValidation, path)
		}
		perm = info.Mode().Perm()
	}

	if g.Atomic {
		if err := writeAtomic(path, data, perm); err != nil {
			return 0, err
		}
		return int64(len(data)), nil
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return 0, fsError(err)
	}
	return int64(len(data)), nil
}

// writeAtomic writes to a hidden sibling and renames it over path.
func writeAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	tmp := TempName(path)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fsError(err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fsError(err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fsError(err)
	}
	if err = f.Close(); err != nil {
		return fsError(err)
	}
	// OpenFile applies the umask.
	if err = os.Chmod(tmp, perm); err != nil {
		return fsError(err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fsError(err)
	}
	// The rename is done; a failed directory sync leaves it in place and
	// only weakens durability across a crash.
	_ = syncDir(filepath.Dir(path))
	return nil
}

// syncDir flushes the directory entry so a rename survives a crash.
// Windows cannot sync a directory handle.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return fsError(err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fsError(err)
	}
	return nil
}

// TempName returns the temporary file used for an atomic write of path.
func TempName(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, "."+name+"."+uuid.NewString()+".tmp")
}

func fsError(err error) error {
	return fmt.Errorf("%w: %w", kerrors.ErrFileSystem, err)
}
