package identity

import "fmt"

// LoadError reports a key file that is missing, unreadable or does not hold a usable key.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "identity load failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to load identity from %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to load identity from %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
