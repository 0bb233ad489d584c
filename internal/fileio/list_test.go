package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/huna/internal/container"
)

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), []byte("plain text"), 0600)
	writeContainer(t, filepath.Join(dir, "a.png"), "a.png")
	writeFile(t, filepath.Join(dir, "c.txt"), []byte(container.Marker+"{oops"), 0600)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "b.txt"), filepath.Join(dir, "link.txt")))

	entries, err := newGateway().List(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a.png", "b.txt", "c.txt", "sub"}, names)

	a := entries[0]
	assert.True(t, a.IsEncrypted)
	require.NotNil(t, a.Metadata)
	assert.Equal(t, "a.png", a.Metadata.Filename)
	assert.Equal(t, "image/png", a.MimeType)
	assert.Empty(t, a.Error)

	b := entries[1]
	assert.False(t, b.IsEncrypted)
	assert.Equal(t, "utf-8", b.Encoding)
	assert.Equal(t, int64(10), b.Size)
	assert.Equal(t, filepath.Join(dir, "b.txt"), b.Path)

	c := entries[2]
	assert.True(t, c.IsEncrypted)
	assert.NotEmpty(t, c.Error)

	sub := entries[3]
	assert.True(t, sub.IsDir)
	assert.Empty(t, sub.MimeType)
}

func TestListMissingDirectory(t *testing.T) {
	_, err := newGateway().List(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestMimeType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"hello.txt", "text/plain"},
		{"README.MD", "text/markdown"},
		{"photo.JPG", "image/jpeg"},
		{"page.html", "text/html"},
		{"archive.tar.gz", "application/gzip"},
		{"Makefile", DefaultMimeType},
		{"data.unknownext", DefaultMimeType},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, MimeType(tt.path))
		})
	}

	assert.True(t, IsTextType("text/markdown"))
	assert.True(t, IsTextType("application/json"))
	assert.False(t, IsTextType("image/png"))
}
