package metadata

import "fmt"

// InvalidMetadataError reports a document that is missing a required field or carries
// inconsistent values.
type InvalidMetadataError struct {
	Field  string
	Reason string
}

func (e *InvalidMetadataError) Error() string {
	if e == nil {
		return "invalid metadata"
	}
	return fmt.Sprintf("invalid metadata: %s %s", e.Field, e.Reason)
}
