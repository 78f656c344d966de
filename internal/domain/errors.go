package domain

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies every failure a caller can observe, whether it
// was produced locally (precondition checks) or decoded from a remote
// response. The category, not the transport status code, decides how the
// presentation layer reacts.
type ErrorCategory string

const (
	// CategoryUnauthenticated means the credential itself is missing,
	// expired or rejected by the identity boundary. It is the only category
	// that tears down the session.
	CategoryUnauthenticated ErrorCategory = "UNAUTHENTICATED"

	// CategoryForbidden means the credential is fine but a business rule
	// disallows the operation (frozen account, invalid PIN, closed-account
	// withdrawal). Never a logout trigger.
	CategoryForbidden ErrorCategory = "FORBIDDEN"

	// CategoryValidationFailed means the request was malformed or failed
	// field validation, locally or server-side.
	CategoryValidationFailed ErrorCategory = "VALIDATION_FAILED"

	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryServerError  ErrorCategory = "SERVER_ERROR"
	CategoryNetworkError ErrorCategory = "NETWORK_ERROR"

	// CategoryRefreshFailed means a mutation settled remotely but the
	// follow-up read reconciling the local view failed. Re-submitting the
	// mutation would apply it twice; only the read should be repeated.
	CategoryRefreshFailed ErrorCategory = "REFRESH_FAILED"
)

// Error is the error type surfaced across the gateway and workflow
// boundaries. Message carries the server-provided text verbatim when one
// was present.
type Error struct {
	Category ErrorCategory
	Op       string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Category, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Category, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Category)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error for the given operation.
func NewError(category ErrorCategory, op, message string) *Error {
	return &Error{Category: category, Op: op, Message: message}
}

// WrapError builds a classified error carrying an underlying cause.
func WrapError(category ErrorCategory, op string, err error) *Error {
	return &Error{Category: category, Op: op, Err: err}
}

// CategoryOf extracts the category from err, or SERVER_ERROR when err is
// not a classified *Error.
func CategoryOf(err error) ErrorCategory {
	var de *Error
	if errors.As(err, &de) {
		return de.Category
	}
	return CategoryServerError
}

// IsCategory reports whether err carries the given category.
func IsCategory(err error, category ErrorCategory) bool {
	return CategoryOf(err) == category
}

// UserMessage returns the text a screen should show for err. Transient
// transport and server failures are collapsed to a generic retry prompt so
// no internal detail leaks; business-rule and validation failures keep the
// server wording.
func UserMessage(err error) string {
	var de *Error
	if !errors.As(err, &de) {
		return "operation failed, try again"
	}
	switch de.Category {
	case CategoryNetworkError, CategoryServerError:
		return "operation failed, try again"
	case CategoryRefreshFailed:
		return "operation completed, but refreshing the account failed, reload your accounts"
	case CategoryUnauthenticated:
		return "your session has expired, please log in again"
	}
	if de.Message != "" {
		return de.Message
	}
	return "operation failed, try again"
}
