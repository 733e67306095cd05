package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/common"
)

// OperationError is the failure value every service operation returns.
// Message is what the user sees: the server detail when there is one,
// otherwise a per-operation fallback.
type OperationError struct {
	Op         string
	Message    string
	StatusCode int
	Err        error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *OperationError) Unwrap() error { return e.Err }

func newOpError(op, fallback string, err error) *OperationError {
	msg := client.Detail(err)
	switch {
	case msg != "":
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrBusy),
		errors.Is(err, common.ErrNoSession),
		errors.Is(err, common.ErrTokenExpired):
		msg = err.Error()
	default:
		msg = fallback
	}
	return &OperationError{Op: op, Message: msg, StatusCode: client.StatusCode(err), Err: err}
}

// RequiresLogin reports whether err means the session is not authenticated
// and the user has to log in again instead of seeing an inline error.
func RequiresLogin(err error) bool {
	return errors.Is(err, client.ErrUnauthenticated)
}

// Status is the load state of a collection.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)
