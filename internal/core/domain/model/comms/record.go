// Package comms contains the communication log: an append-only record of
// every attempt to reach a supplier system, successful or not.
package comms

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Record captures a single supplier communication attempt. Records are
// immutable once written; investigations and performance analysis read them
// back per order.
type Record struct {
	id             kernel.UUID
	orderID        kernel.UUID
	supplierID     kernel.UUID
	action         string
	attempt        int
	success        bool
	request        string
	response       string
	errMessage     string
	responseTimeMs int64
	createdAt      time.Time
}

// NewRecord creates a communication record for one attempt.
//
// Parameters:
//   - orderID: the order the communication belongs to.
//   - supplierID: the supplier system that was contacted.
//   - action: the operation attempted, e.g. "send_order" or "request_tracking".
//   - attempt: 1-based attempt number within the retry cycle.
//   - success: whether the supplier acknowledged the request.
//
// Returns:
//   - *Record: the constructed record.
//   - error: errs.ValueIsRequiredError if action is empty or attempt is not positive.
func NewRecord(orderID, supplierID kernel.UUID, action string, attempt int, success bool) (*Record, error) {
	if action == "" {
		return nil, errs.NewValueIsRequiredError("action")
	}
	if attempt < 1 {
		return nil, errs.NewValueIsInvalidError("attempt")
	}

	return &Record{
		id:         kernel.NewUUID(),
		orderID:    orderID,
		supplierID: supplierID,
		action:     action,
		attempt:    attempt,
		success:    success,
		createdAt:  time.Now().UTC(),
	}, nil
}

// RestoreRecord reconstructs a record from storage without validation.
func RestoreRecord(id, orderID, supplierID kernel.UUID, action string, attempt int,
	success bool, request, response, errMessage string, responseTimeMs int64,
	createdAt time.Time) *Record {
	return &Record{
		id:             id,
		orderID:        orderID,
		supplierID:     supplierID,
		action:         action,
		attempt:        attempt,
		success:        success,
		request:        request,
		response:       response,
		errMessage:     errMessage,
		responseTimeMs: responseTimeMs,
		createdAt:      createdAt,
	}
}

// WithPayloads attaches the request and response bodies exchanged during the
// attempt. Bodies are stored verbatim for later inspection.
func (r *Record) WithPayloads(request, response string) *Record {
	r.request = request
	r.response = response
	return r
}

// WithError attaches the failure message of an unsuccessful attempt.
func (r *Record) WithError(message string) *Record {
	r.errMessage = message
	return r
}

// WithLatency records how long the supplier took to answer the attempt.
func (r *Record) WithLatency(elapsed time.Duration) *Record {
	r.responseTimeMs = elapsed.Milliseconds()
	return r
}

// ID returns the record identifier.
func (r *Record) ID() kernel.UUID { return r.id }

// OrderID returns the order the communication belongs to.
func (r *Record) OrderID() kernel.UUID { return r.orderID }

// SupplierID returns the contacted supplier.
func (r *Record) SupplierID() kernel.UUID { return r.supplierID }

// Action returns the attempted operation name.
func (r *Record) Action() string { return r.action }

// Attempt returns the 1-based attempt number.
func (r *Record) Attempt() int { return r.attempt }

// Success reports whether the supplier acknowledged the request.
func (r *Record) Success() bool { return r.success }

// Request returns the request body sent to the supplier.
func (r *Record) Request() string { return r.request }

// Response returns the response body received, if any.
func (r *Record) Response() string { return r.response }

// ErrMessage returns the failure message of an unsuccessful attempt.
func (r *Record) ErrMessage() string { return r.errMessage }

// ResponseTimeMs returns the supplier's answer latency in milliseconds.
func (r *Record) ResponseTimeMs() int64 { return r.responseTimeMs }

// CreatedAt returns when the attempt happened.
func (r *Record) CreatedAt() time.Time { return r.createdAt }
