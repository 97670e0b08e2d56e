package pipeline

import "fmt"

// StageError reports the stage a run failed in. The cause stays reachable through
// errors.As, so callers can still match storage.UploadError or mint.MintError.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	if e == nil {
		return "pipeline failed"
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
