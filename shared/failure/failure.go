package failure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Engine error kinds. Every booking decision the engine denies is reported
// through one of these, so callers can branch on the kind instead of
// string-matching messages. LOCK_TIMEOUT is the only retryable kind.
const (
	KindAccessDenied           = "ACCESS_DENIED"
	KindUnavailable            = "UNAVAILABLE"
	KindConflict               = "CONFLICT"
	KindInvalidStateTransition = "INVALID_STATE_TRANSITION"
	KindExtensionConflict      = "EXTENSION_CONFLICT"
	KindLockTimeout            = "LOCK_TIMEOUT"
	KindValidationError        = "VALIDATION_ERROR"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Engine denials additionally carry a Kind, an optional reason subcode and the
// ids of conflicting bookings where applicable.
type Failure struct {
	Code                  int      `json:"code"`
	Kind                  string   `json:"kind,omitempty"`
	Reason                string   `json:"reason,omitempty"`
	Message               string   `json:"message"`
	ConflictingBookingIDs []string `json:"conflicting_booking_ids,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// AccessDenied reports a booking access-control denial with its reason subcode.
func AccessDenied(reason, msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindAccessDenied,
		Reason:  reason,
		Message: msg,
	}
}

// Unavailable reports a denial from the availability resolver with its reason subcode.
func Unavailable(reason, msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindUnavailable,
		Reason:  reason,
		Message: msg,
	}
}

// BookingConflict reports an overlap with one or more blocking bookings.
func BookingConflict(conflictingIDs []string) error {
	return &Failure{
		Code:                  http.StatusConflict,
		Kind:                  KindConflict,
		Message:               "requested interval overlaps existing bookings: " + strings.Join(conflictingIDs, ", "),
		ConflictingBookingIDs: conflictingIDs,
	}
}

// InvalidStateTransition reports an illegal booking state machine transition.
func InvalidStateTransition(from, event string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindInvalidStateTransition,
		Message: fmt.Sprintf("cannot apply event %q to booking in status %q", event, from),
	}
}

// ExtensionConflict reports a failed extension; the booking is left unchanged.
func ExtensionConflict(conflictingIDs []string) error {
	return &Failure{
		Code:                  http.StatusConflict,
		Kind:                  KindExtensionConflict,
		Message:               "extended interval overlaps existing bookings: " + strings.Join(conflictingIDs, ", "),
		ConflictingBookingIDs: conflictingIDs,
	}
}

// LockTimeout reports that the per-room lock could not be acquired within the
// configured wait budget. Callers may retry with backoff.
func LockTimeout(key string) error {
	return &Failure{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindLockTimeout,
		Message: fmt.Sprintf("timed out waiting for lock %q", key),
	}
}

// Validation reports a request that fails engine-level validation (start >= end,
// past-dated start and similar).
func Validation(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidationError,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the engine error kind, or an empty string for plain failures.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}

// IsRetryable reports whether the caller may retry the operation. Only lock
// acquisition timeouts qualify.
func IsRetryable(err error) bool {
	return GetKind(err) == KindLockTimeout
}
