package workflows

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

// excluded reports whether path, below root, matches an exclude pattern.
func (e *Engine) excluded(root, path string) bool {
	if len(e.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range e.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (e *Engine) validateExclude() error {
	for _, pattern := range e.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: invalid exclude pattern %q", kerrors.ErrValidation, pattern)
		}
	}
	return nil
}

// ResolveTargets expands user-provided paths and globs into existing files
// and directories, relative to base. Literal paths are kept even when they
// contain glob characters. Duplicates are removed, keeping the first
// occurrence.
func ResolveTargets(patterns []string, base string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no path given", kerrors.ErrValidation)
	}

	var targets []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, base)
		if err != nil {
			return nil, err
		}

		for _, t := range resolved {
			if !seen[t] {
				seen[t] = true
				targets = append(targets, t)
			}
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no matching files found", kerrors.ErrValidation)
	}
	return targets, nil
}

func resolvePattern(pattern, base string) ([]string, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: path is required", kerrors.ErrValidation)
	}

	abs := pattern
	if !filepath.IsAbs(pattern) {
		abs = filepath.Join(base, pattern)
	}

	if _, err := os.Lstat(abs); err == nil {
		return []string{abs}, nil
	}

	if !strings.ContainsAny(pattern, "*?[{") {
		return nil, fmt.Errorf("%w: %s: %w", kerrors.ErrFileSystem, pattern, os.ErrNotExist)
	}

	matches, err := doublestar.FilepathGlob(abs, doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid glob pattern %q: %v", kerrors.ErrValidation, pattern, err)
	}
	return matches, nil
}
