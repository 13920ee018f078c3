package errs

import (
	"fmt"
)

// InvalidStateTransitionError indicates that a requested order status change
// violates the allowed-edge set of the order lifecycle. The order is left
// unchanged when this error is returned.
type InvalidStateTransitionError struct {
	From string
	To   string
}

// NewInvalidStateTransitionError creates an InvalidStateTransitionError for the given edge.
func NewInvalidStateTransitionError(from, to string) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{From: from, To: to}
}

func (e *InvalidStateTransitionError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s -> %s", ErrInvalidStateTransition, e.From, e.To))
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// TransientNetworkError indicates a failure that is expected to succeed on retry:
// timeouts, connection resets, 5xx responses. The retry policy of the caller
// (gateway attempt loop or queue fabric backoff) decides what to do with it.
type TransientNetworkError struct {
	Op    string
	Cause error
}

// NewTransientNetworkError creates a TransientNetworkError for the given operation.
func NewTransientNetworkError(op string, cause error) *TransientNetworkError {
	return &TransientNetworkError{Op: op, Cause: cause}
}

func (e *TransientNetworkError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrTransientNetwork, e.Op, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrTransientNetwork, e.Op))
}

func (e *TransientNetworkError) Unwrap() error {
	return ErrTransientNetwork
}

// SupplierCommunicationError is raised after the gateway has exhausted its retry
// budget against a supplier endpoint. It carries the last underlying error and
// the number of attempts made. The order is marked FAILED by the caller.
type SupplierCommunicationError struct {
	SupplierID string
	Action     string
	Attempts   int
	Cause      error
}

// NewSupplierCommunicationError creates a SupplierCommunicationError carrying the last attempt's error.
func NewSupplierCommunicationError(supplierID, action string, attempts int, cause error) *SupplierCommunicationError {
	return &SupplierCommunicationError{SupplierID: supplierID, Action: action, Attempts: attempts, Cause: cause}
}

func (e *SupplierCommunicationError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: supplier is: %s, action is: %s, attempts: %d (cause: %s)",
			ErrSupplierCommunication, e.SupplierID, e.Action, e.Attempts, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: supplier is: %s, action is: %s, attempts: %d",
		ErrSupplierCommunication, e.SupplierID, e.Action, e.Attempts))
}

func (e *SupplierCommunicationError) Unwrap() error {
	return ErrSupplierCommunication
}
