package workflows

import (
	"context"
	"fmt"
	"os"

	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/fileio"
)

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// Recursive descends into subdirectories, honoring the exclude patterns.
	Recursive bool
}

// StatusSummary holds counts of files by state.
type StatusSummary struct {
	Encrypted   int `json:"encrypted"`
	Plaintext   int `json:"plaintext"`
	Corrupted   int `json:"corrupted"`
	Directories int `json:"directories"`
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	// Root is the directory that was listed.
	Root string `json:"root"`

	// Entries lists files and directories in traversal order.
	Entries []fileio.Entry `json:"entries"`

	Summary StatusSummary `json:"summary"`
}

// Status lists root with header-only reads, so no payload is loaded and
// no password is needed.
//
// Returns ErrValidation if root is not a directory.
func (e *Engine) Status(ctx context.Context, root string, opts StatusOptions) (*StatusResult, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: path is required", kerrors.ErrValidation)
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

	result := &StatusResult{Root: root, Entries: []fileio.Entry{}}
	if err := e.status(ctx, root, root, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) status(ctx context.Context, root, dir string, opts StatusOptions, result *StatusResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := e.IO.List(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if e.excluded(root, entry.Path) {
			continue
		}
		result.Entries = append(result.Entries, entry)

		switch {
		case entry.IsDir:
			result.Summary.Directories++
			if opts.Recursive {
				if err := e.status(ctx, root, entry.Path, opts, result); err != nil {
					return err
				}
			}
		case entry.Error != "":
			result.Summary.Corrupted++
		case entry.IsEncrypted:
			result.Summary.Encrypted++
		default:
			result.Summary.Plaintext++
		}
	}
	return nil
}
