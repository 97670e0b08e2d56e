package storage

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashgraph-online/media-mint-go/pkg/mediatype"
)

const TagContentType = "Content-Type"

// Blob is a file read into memory and ready to upload.
type Blob struct {
	Path     string
	Name     string
	Data     []byte
	MimeType string
	Tags     map[string]string
}

// Asset is the result of a completed upload.
type Asset struct {
	URI      string
	Path     string
	Name     string
	MimeType string
	Size     int64
	SHA256   string
}

// Uploader stores a blob and returns the URI it is reachable at. Implementations do not
// retry.
type Uploader interface {
	Upload(ctx context.Context, blob Blob) (Asset, error)
}

// URIPredictor is implemented by backends that know the length of a URI before the
// upload happens, so callers can reject names that would not fit on chain.
type URIPredictor interface {
	PredictURILength(name string, mimeType string) int
}

// CanonicalMarshaler is implemented by documents with a stable JSON encoding.
type CanonicalMarshaler interface {
	MarshalCanonical() ([]byte, error)
}

// StatFile checks that path names a readable regular file without reading it.
func StatFile(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &FileNotFoundError{Path: path, Err: fmt.Errorf("%s is a directory", path)}
	}
	return info, nil
}

// ReadFile loads path into a Blob. A blank name falls back to the base name of path and
// a blank MIME type to the extension table.
func ReadFile(path string, name string, mimeType string) (Blob, error) {
	if _, err := StatFile(path); err != nil {
		return Blob{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	resolvedName := strings.TrimSpace(name)
	if resolvedName == "" {
		resolvedName = filepath.Base(path)
	}
	resolvedMimeType := mediatype.Resolve(path, mimeType)

	return Blob{
		Path:     path,
		Name:     resolvedName,
		Data:     data,
		MimeType: resolvedMimeType,
		Tags:     map[string]string{TagContentType: resolvedMimeType},
	}, nil
}

// WithTags returns a copy of b carrying the extra tags. Content-Type is never overridden.
func (b Blob) WithTags(tags map[string]string) Blob {
	merged := make(map[string]string, len(b.Tags)+len(tags))
	for key, value := range b.Tags {
		merged[key] = value
	}
	for key, value := range tags {
		if key == TagContentType {
			continue
		}
		merged[key] = value
	}
	merged[TagContentType] = b.MimeType
	b.Tags = merged
	return b
}

// UploadFile reads path and uploads it. Failures reported by the uploader are wrapped in
// an UploadError.
func UploadFile(
	ctx context.Context,
	uploader Uploader,
	path string,
	name string,
	mimeType string,
	tags map[string]string,
) (Asset, error) {
	blob, err := ReadFile(path, name, mimeType)
	if err != nil {
		return Asset{}, err
	}
	return upload(ctx, uploader, blob.WithTags(tags))
}

// UploadJSON encodes document and uploads it as application/json under name.
func UploadJSON(ctx context.Context, uploader Uploader, name string, document any) (Asset, error) {
	var (
		payload []byte
		err     error
	)
	if canonical, ok := document.(CanonicalMarshaler); ok {
		payload, err = canonical.MarshalCanonical()
	} else {
		payload, err = json.Marshal(document)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("failed to encode %s: %w", name, err)
	}

	blob := Blob{
		Name:     name,
		Data:     payload,
		MimeType: mediatype.JSON,
		Tags:     map[string]string{TagContentType: mediatype.JSON},
	}
	return upload(ctx, uploader, blob)
}

func upload(ctx context.Context, uploader Uploader, blob Blob) (Asset, error) {
	if uploader == nil {
		return Asset{}, fmt.Errorf("uploader is required")
	}

	asset, err := uploader.Upload(ctx, blob)
	if err != nil {
		var uploadErr *UploadError
		if errors.As(err, &uploadErr) {
			return Asset{}, err
		}
		return Asset{}, &UploadError{Name: blob.Name, Err: err}
	}
	return asset, nil
}

// Digest returns the lowercase hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ContentAddressLength is the length of a ContentAddress.
const ContentAddressLength = 43

// ContentAddress is the unpadded base64url SHA-256 of data. It carries the same digest
// as Digest in 43 URL-safe characters instead of 64.
func ContentAddress(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func newAsset(blob Blob, uri string) Asset {
	return Asset{
		URI:      uri,
		Path:     blob.Path,
		Name:     blob.Name,
		MimeType: blob.MimeType,
		Size:     int64(len(blob.Data)),
		SHA256:   Digest(blob.Data),
	}
}
