package mirror

import (
	"fmt"
	"net/http"
)

// StatusError is returned when the mirror node answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mirror node request failed with status %d: %s", e.StatusCode, e.Body)
}

// NotFound reports whether the mirror node has no such entity, or has not ingested it yet.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
