package explain

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/roach88/proof/internal/ir"
)

// ExplainError represents a failure that aborted an explanation.
//
// Explanations never retry. A malformed target or disabled inference is
// not an error: it yields an empty request instead.
type ExplainError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// RequestID identifies the affected request, if one was allocated.
	RequestID ir.ID

	// Rule names the rule being collected, for backend and contract errors.
	Rule string

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes explanation errors.
type ErrorCode string

const (
	// ErrCodeStore indicates a store lookup failed.
	ErrCodeStore ErrorCode = "STORE_FAILURE"

	// ErrCodeBackend indicates the inference backend failed.
	ErrCodeBackend ErrorCode = "BACKEND_FAILURE"

	// ErrCodeContract indicates the backend broke the reporting contract,
	// for example by reporting an unnamed rule or a failing solution cursor.
	ErrCodeContract ErrorCode = "CONTRACT_VIOLATION"

	// ErrCodeClosed indicates use of a released or unknown request.
	ErrCodeClosed ErrorCode = "REQUEST_CLOSED"
)

// Error implements the error interface.
func (e *ExplainError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Rule != "" {
		msg += fmt.Sprintf(" (rule=%s)", e.Rule)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ExplainError) Unwrap() error {
	return e.Err
}

// IsStoreError returns true if err is, or wraps, a store failure.
func IsStoreError(err error) bool {
	return hasCode(err, ErrCodeStore)
}

// IsBackendError returns true if err is, or wraps, a backend failure.
func IsBackendError(err error) bool {
	return hasCode(err, ErrCodeBackend)
}

// IsContractError returns true if err is, or wraps, a contract violation.
func IsContractError(err error) bool {
	return hasCode(err, ErrCodeContract)
}

// IsClosedError returns true if err is, or wraps, use of a released request.
func IsClosedError(err error) bool {
	return hasCode(err, ErrCodeClosed)
}

func hasCode(err error, code ErrorCode) bool {
	var ee *ExplainError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

func newStoreError(message string, err error) *ExplainError {
	return &ExplainError{Code: ErrCodeStore, Message: message, Err: err}
}

func newContractError(rule, message string, err error) *ExplainError {
	return &ExplainError{Code: ErrCodeContract, Message: message, Rule: rule, Err: err}
}

func newBackendError(err error) *ExplainError {
	return &ExplainError{Code: ErrCodeBackend, Message: "support check failed", Err: err}
}

func newClosedError(id ir.ID) *ExplainError {
	return &ExplainError{Code: ErrCodeClosed, Message: "request released or unknown", RequestID: id}
}
