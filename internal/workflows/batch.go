package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/huna/internal/audit"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

type direction int

const (
	toEncrypted direction = iota
	toPlaintext
)

func (d direction) String() string {
	if d == toEncrypted {
		return "encrypt"
	}
	return "decrypt"
}

// EncryptDirectory encrypts every plaintext file under root.
//
// Entries are visited depth-first in name order. Symlinks and other
// non-regular files are never followed or counted. Files that are already
// encrypted, and empty files, are skipped. A failing file is recorded in
// the statistics and the walk continues.
//
// Returns ErrValidation if the password is empty or root is not a
// directory; no file is visited in that case. When ctx is cancelled the
// walk stops before the next file and the statistics gathered so far are
// returned together with ctx.Err().
func (e *Engine) EncryptDirectory(ctx context.Context, root, password string, opts BatchOptions) (*BatchStats, error) {
	return e.batch(ctx, root, password, opts, toEncrypted)
}

// DecryptDirectory decrypts every encrypted file under root. It follows
// the same rules as EncryptDirectory, skipping plaintext files.
func (e *Engine) DecryptDirectory(ctx context.Context, root, password string, opts BatchOptions) (*BatchStats, error) {
	return e.batch(ctx, root, password, opts, toPlaintext)
}

func (e *Engine) batch(ctx context.Context, root, password string, opts BatchOptions, dir direction) (*BatchStats, error) {
	if err := validate(ctx, root, password); err != nil {
		return nil, err
	}
	if err := e.validateExclude(); err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrFileSystem, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", kerrors.ErrValidation, root)
	}

	stats := &BatchStats{DryRun: opts.DryRun}
	w := walker{engine: e, root: root, password: password, dryRun: opts.DryRun, dir: dir, stats: stats}

	err = w.walk(ctx, root)
	e.Logger.Infof("%s %s: %d transformed, %d skipped, %d failed", dir, root, stats.Encrypted+stats.Decrypted, stats.Skipped, stats.Failed)

	if !opts.DryRun {
		e.auditBatch(dir.String(), root, stats)
	}
	if err != nil {
		return stats, err
	}
	return stats, nil
}

type walker struct {
	engine   *Engine
	root     string
	password string
	dryRun   bool
	dir      direction
	stats    *BatchStats
}

// walk returns only cancellation and errors reading root itself. Anything
// else below root is recorded in the statistics.
func (w *walker) walk(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == w.root {
			return fmt.Errorf("%w: %w", kerrors.ErrFileSystem, err)
		}
		w.stats.fail(dir, fmt.Errorf("%w: %w", kerrors.ErrFileSystem, err))
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		if w.engine.excluded(w.root, path) {
			w.engine.Logger.Debugf("Excluded %s", path)
			continue
		}

		switch {
		case entry.IsDir():
			if err := w.walk(ctx, path); err != nil {
				return err
			}
		case !entry.Type().IsRegular():
			w.engine.Logger.Debugf("Ignoring non-regular file %s", path)
		default:
			w.visit(path)
		}
	}
	return nil
}

func (w *walker) visit(path string) {
	log := w.engine.Logger

	header, err := w.engine.IO.ReadHeader(path)
	if err != nil {
		log.Warnf("Failed to read %s: %v", path, err)
		w.stats.fail(path, err)
		return
	}
	if header.Size == 0 {
		log.Debugf("Skipping empty file %s", path)
		w.stats.Skipped++
		return
	}

	if header.IsEncrypted && w.dir == toEncrypted {
		log.Debugf("Skipping %s: already encrypted", path)
		w.stats.Skipped++
		return
	}
	if !header.IsEncrypted && w.dir == toPlaintext {
		log.Debugf("Skipping %s: not encrypted", path)
		w.stats.Skipped++
		return
	}

	if !w.dryRun {
		if err := w.transform(path); err != nil {
			if kerrors.KindOf(err).IsStateMismatch() {
				w.stats.Skipped++
				return
			}
			log.Warnf("Failed to %s %s: %v", w.dir, path, err)
			w.stats.fail(path, err)
			return
		}
	}

	w.stats.Files = append(w.stats.Files, path)
	if w.dir == toEncrypted {
		w.stats.Encrypted++
	} else {
		w.stats.Decrypted++
	}
}

func (w *walker) transform(path string) error {
	var err error
	if w.dir == toEncrypted {
		_, err = w.engine.encryptFile(path, w.password)
	} else {
		_, err = w.engine.decryptFile(path, w.password)
	}
	return err
}

func (e *Engine) auditBatch(op, root string, stats *BatchStats) {
	if e.Audit == nil {
		return
	}
	entry := audit.NewEntry(op)
	entry.Path = root
	entry.Files = stats.Files
	entry.Encrypted = stats.Encrypted
	entry.Decrypted = stats.Decrypted
	entry.Skipped = stats.Skipped
	entry.Failed = stats.Failed
	e.Audit.Log(entry)
}
