package mint

import (
	"fmt"
	"time"
)

// MintError reports a mint or collection transaction that could not be built,
// was rejected, or finished with a non-success status.
type MintError struct {
	TransactionID string
	Status        string
	Reason        string
	Err           error
}

func (e *MintError) Error() string {
	if e == nil {
		return "mint failed"
	}
	message := "mint failed"
	if e.TransactionID != "" {
		message += " (" + e.TransactionID + ")"
	}
	if e.Reason != "" {
		message += ": " + e.Reason
	}
	if e.Status != "" {
		message += ": status " + e.Status
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *MintError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfirmationTimeoutError reports a submitted transaction whose confirmation did not
// arrive in time. The transaction may still reach consensus later.
type ConfirmationTimeoutError struct {
	TransactionID string
	Commitment    Commitment
	Timeout       time.Duration
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf(
		"transaction %s not confirmed at %s level within %s",
		e.TransactionID,
		e.Commitment,
		e.Timeout,
	)
}
