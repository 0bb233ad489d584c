package workflows

import (
	"github.com/PolarWolf314/huna/internal/audit"
	"github.com/PolarWolf314/huna/internal/configs"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
	"github.com/PolarWolf314/huna/internal/fileio"
	logger "github.com/PolarWolf314/huna/internal/logging"
)

// Engine runs transforms against the file system.
type Engine struct {
	// IO performs every read and write.
	IO *fileio.Gateway

	// Logger receives progress and per-file diagnostics.
	Logger logger.Logger

	// Audit records completed operations. Nil disables auditing.
	Audit *audit.Trail

	// Exclude holds doublestar patterns, matched against slash-separated
	// paths relative to a batch root, for entries the walker never visits.
	Exclude []string
}

// NewEngine wires an Engine from the user configuration.
func NewEngine(cfg *configs.Config, log logger.Logger) *Engine {
	e := &Engine{
		IO:      fileio.New(cfg),
		Logger:  log,
		Exclude: cfg.Walk.Exclude,
	}
	if cfg.Audit.Enabled {
		e.Audit = audit.NewTrail()
	}
	return e
}

// FileResult contains the outcome of a single-file transform.
type FileResult struct {
	// Path is the file that was written.
	Path string `json:"path"`

	// Size is the number of bytes written.
	Size int64 `json:"size"`

	// Encoding is the content encoding tag, "binary" for binary content.
	Encoding string `json:"encoding"`
}

// BatchOptions configures a directory transform.
type BatchOptions struct {
	// DryRun classifies every file without writing anything.
	DryRun bool
}

// FileError records why one file of a batch failed.
type FileError struct {
	Path    string       `json:"path"`
	Kind    kerrors.Kind `json:"kind"`
	Message string       `json:"error"`

	Err error `json:"-"`
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Message
}

func (e FileError) Unwrap() error {
	return e.Err
}

// BatchStats aggregates a directory transform.
type BatchStats struct {
	// Encrypted and Decrypted count files transformed, or that would be
	// transformed in a dry run.
	Encrypted int `json:"encrypted"`
	Decrypted int `json:"decrypted"`

	// Skipped counts files already in the target state and empty files.
	Skipped int `json:"skipped"`

	// Failed counts files whose transform returned an error.
	Failed int `json:"failed"`

	// Errors lists failures in traversal order.
	Errors []FileError `json:"errors,omitempty"`

	// Files lists transformed files in traversal order.
	Files []string `json:"files,omitempty"`

	DryRun bool `json:"dry_run"`
}

func (s *BatchStats) fail(path string, err error) {
	s.Failed++
	s.Errors = append(s.Errors, FileError{
		Path:    path,
		Kind:    kerrors.KindOf(err),
		Message: kerrors.Message(err),
		Err:     err,
	})
}
