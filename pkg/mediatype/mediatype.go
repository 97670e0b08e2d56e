// Package mediatype maps file names to the MIME types declared on uploads.
package mediatype

import (
	"path/filepath"
	"strings"
)

const (
	OctetStream = "application/octet-stream"
	JSON        = "application/json"
)

var byExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".html": "text/html",
	".txt":  "text/plain",
	".json": JSON,
	".pdf":  "application/pdf",
}

// Detect returns the MIME type for the extension of path, or application/octet-stream
// when the extension is not in the table.
func Detect(path string) string {
	extension := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	if mimeType, ok := byExtension[extension]; ok {
		return mimeType
	}
	return OctetStream
}

// Resolve returns declared when it is set, otherwise Detect(path).
func Resolve(path string, declared string) string {
	if trimmed := strings.TrimSpace(declared); trimmed != "" {
		return trimmed
	}
	return Detect(path)
}

// Family returns the part of a MIME type before the slash, e.g. "audio".
func Family(mimeType string) string {
	family, _, found := strings.Cut(strings.ToLower(strings.TrimSpace(mimeType)), "/")
	if !found {
		return ""
	}
	return family
}

var preferredExtension = map[string]string{
	"image/jpeg": ".jpg",
}

// Extension returns the file extension used for mimeType, or "" when the type is unknown.
func Extension(mimeType string) string {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if extension, ok := preferredExtension[normalized]; ok {
		return extension
	}
	for extension, candidate := range byExtension {
		if candidate == normalized {
			return extension
		}
	}
	return ""
}
