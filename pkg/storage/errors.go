package storage

import "fmt"

// FileNotFoundError reports a local file that does not exist or is not a regular file.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	if e == nil {
		return "file not found"
	}
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UploadError reports a storage service rejecting or failing an upload.
type UploadError struct {
	Name    string
	Backend string
	Err     error
}

func (e *UploadError) Error() string {
	if e == nil {
		return "upload failed"
	}
	if e.Backend != "" {
		return fmt.Sprintf("upload of %s to %s failed: %v", e.Name, e.Backend, e.Err)
	}
	return fmt.Sprintf("upload of %s failed: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MismatchError reports a URI whose content differs from the bytes that were uploaded.
type MismatchError struct {
	URI      string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("content at %s has sha256 %s, expected %s", e.URI, e.Actual, e.Expected)
}
