package types

import (
	"errors"
	"fmt"
)

// WrapParamError wraps a parameter validation error with field context.
func WrapParamError(err error, field string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("invalid %s: %w", field, err)
}

// Identity errors.
var (
	// ErrNotAuthenticated is returned when a write operation is attempted
	// without a caller identity.
	ErrNotAuthenticated = errors.New("no caller identity available")
)

// Builder parameter errors.
var (
	// ErrEmptyTenant is returned when a create request names no tenant.
	ErrEmptyTenant = errors.New("tenant address cannot be empty")

	// ErrNonPositiveAmount is returned when an amount is nil, zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")

	// ErrZeroDuration is returned when the lease duration is zero months.
	ErrZeroDuration = errors.New("duration must be at least 1 month")

	// ErrEmptyContractAddress is returned when the builder has no contract
	// address configured.
	ErrEmptyContractAddress = errors.New("contract address cannot be empty")
)

// Read-path errors.
var (
	// ErrNoData is returned when a read found no usable value. The facade
	// converts query and decode failures into this at its boundary.
	ErrNoData = errors.New("no data available")
)

// Submission errors.
var (
	// ErrSubmissionRejected is returned when the ledger rejected a
	// submitted transaction outright (malformed, insufficient balance,
	// stale nonce). Submission is at-most-once; the tracker never retries.
	ErrSubmissionRejected = errors.New("submission rejected by ledger")

	// ErrTrackerClosed is returned when submitting through a stopped tracker.
	ErrTrackerClosed = errors.New("submission tracker is closed")

	// ErrUnknownHandle is returned when awaiting a correlation handle the
	// tracker has never seen.
	ErrUnknownHandle = errors.New("unknown correlation handle")
)

// Query errors.
var (
	// ErrQueryFailed is returned when the gateway's read-only query call
	// failed at the transport or contract level.
	ErrQueryFailed = errors.New("contract query failed")
)

// TruncatedError is a decode failure caused by a query response carrying
// fewer fields than the positional contract requires. The decoder checks
// length before extracting anything; it never guesses.
type TruncatedError struct {
	// Want is the number of fields the schema requires.
	Want int

	// Got is the number of fields the response carried.
	Got int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated query response: got %d fields, want %d", e.Got, e.Want)
}

// InvalidTextError is a decode failure caused by a text field that is not
// valid UTF-8. Invalid bytes fail the decode rather than being truncated.
type InvalidTextError struct {
	// Field is the positional index of the offending field.
	Field int
}

func (e *InvalidTextError) Error() string {
	return fmt.Sprintf("field %d is not valid UTF-8 text", e.Field)
}

// UnknownStatusError is a decode failure caused by a status code outside
// the closed status set.
type UnknownStatusError struct {
	// Code is the status code the response carried.
	Code uint64
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown agreement status code %d", e.Code)
}

// IsDecodeError returns true if err is one of the typed decode failures.
func IsDecodeError(err error) bool {
	var truncated *TruncatedError
	var invalidText *InvalidTextError
	var unknownStatus *UnknownStatusError
	return errors.As(err, &truncated) ||
		errors.As(err, &invalidText) ||
		errors.As(err, &unknownStatus)
}
