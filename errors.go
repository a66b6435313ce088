package visient

import (
	"errors"
	"fmt"

	"github.com/visient/visient-go/api"
)

var (
	// ErrInvalidQuery signals a query item that fails schema validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnsupportedKey signals a query key the annotation builder cannot handle.
	ErrUnsupportedKey = errors.New("unsupported query key")
	// ErrRemoteFailure signals a non-success status returned by the platform.
	ErrRemoteFailure = errors.New("remote failure")
)

// StatusError wraps ErrRemoteFailure with the status and the raw decoded
// response that carried it.
type StatusError struct {
	Status   *api.Status
	Response any
}

func (e *StatusError) Error() string {
	if e.Status == nil {
		return ErrRemoteFailure.Error()
	}
	if e.Status.Details != "" {
		return fmt.Sprintf("%s: %s (code %d): %s",
			ErrRemoteFailure.Error(), e.Status.Description, e.Status.Code, e.Status.Details)
	}
	return fmt.Sprintf("%s: %s (code %d)",
		ErrRemoteFailure.Error(), e.Status.Description, e.Status.Code)
}

func (e *StatusError) Unwrap() error { return ErrRemoteFailure }

// NewStatusError creates a remote failure error from a decoded response.
func NewStatusError(status *api.Status, response any) error {
	return &StatusError{Status: status, Response: response}
}
