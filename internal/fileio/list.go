package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/huna/internal/container"
	kerrors "github.com/PolarWolf314/huna/internal/errors"
)

// Entry is one item of a directory listing, augmented with what a
// header-only read reveals about it. Error is set when the header could not
// be classified.
type Entry struct {
	Name        string              `json:"name"`
	Path        string              `json:"path"`
	IsDir       bool                `json:"is_dir"`
	Size        int64               `json:"size"`
	Modified    time.Time           `json:"modified"`
	IsEncrypted bool                `json:"is_encrypted"`
	Metadata    *container.Metadata `json:"metadata,omitempty"`
	MimeType    string              `json:"mime_type,omitempty"`
	Encoding    string              `json:"encoding,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// List returns the entries of dir in name order. Symlinks and other
// non-regular files are left out; directories are listed but not read.
func (g *Gateway) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fsError(err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.IsDir() && !de.Type().IsRegular() {
			continue
		}

		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}

		entry := Entry{
			Name:     de.Name(),
			Path:     filepath.Join(dir, de.Name()),
			IsDir:    de.IsDir(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		}
		if !entry.IsDir {
			g.augment(&entry)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (g *Gateway) augment(entry *Entry) {
	entry.MimeType = MimeType(entry.Path)

	res, err := g.ReadHeader(entry.Path)
	if err != nil {
		entry.Error = kerrors.Message(err)
		entry.IsEncrypted = kerrors.KindOf(err) == kerrors.KindCorruptedMetadata
		return
	}
	entry.IsEncrypted = res.IsEncrypted
	entry.Metadata = res.Metadata
	entry.Encoding = res.Encoding
	if res.Metadata != nil {
		entry.MimeType = MimeType(res.Metadata.Filename)
	}
}

// String renders the entry for debug logging.
func (e Entry) String() string {
	state := "plain"
	if e.IsEncrypted {
		state = "encrypted"
	}
	return fmt.Sprintf("%s (%s, %d bytes)", e.Path, state, e.Size)
}
