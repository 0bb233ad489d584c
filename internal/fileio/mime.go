package fileio

import (
	"mime"
	"path/filepath"
	"strings"
)

// DefaultMimeType is reported for unknown extensions.
const DefaultMimeType = "application/octet-stream"

// Types the platform table may lack or report differently between systems.
var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".log":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "text/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".toml": "application/toml",
	".env":  "text/plain",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".sh":   "application/x-sh",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".heic": "image/heic",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
}

// MimeType resolves a media type from the extension of path. Content is
// never sniffed, so an encrypted file reports the type of its plaintext.
func MimeType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return DefaultMimeType
	}
	if t, ok := mimeTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return t
	}
	return DefaultMimeType
}

// IsTextType reports whether a media type is rendered as text by previews.
func IsTextType(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/yaml", "application/toml", "application/x-sh", "image/svg+xml":
		return true
	}
	return false
}
