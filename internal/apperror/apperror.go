package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a terminal, caller-facing error with a stable discriminator
// code and the HTTP status an adapter should report it with.
type Error struct {
	Code       string
	HTTPStatus int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets wrapped errors match the sentinel by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMessagef returns a copy of the sentinel with a specific message,
// still matching the original via errors.Is.
func (e *Error) WithMessagef(format string, args ...any) *Error {
	return &Error{
		Code:       e.Code,
		HTTPStatus: e.HTTPStatus,
		Message:    fmt.Sprintf(format, args...),
	}
}

var (
	// ErrInvalidSlot - malformed or out-of-grid slot request.
	ErrInvalidSlot = &Error{Code: "invalid_slot", HTTPStatus: http.StatusBadRequest, Message: "invalid slot"}

	// ErrSlotUnavailable - slot already held by a live reservation, whether
	// detected by the pre-check or by losing the insert race.
	ErrSlotUnavailable = &Error{Code: "slot_unavailable", HTTPStatus: http.StatusConflict, Message: "slot unavailable"}

	// ErrUnresolvedModifier - a referenced addon or coach does not exist.
	ErrUnresolvedModifier = &Error{Code: "unresolved_modifier", HTTPStatus: http.StatusBadRequest, Message: "unresolved price modifier"}

	// ErrIllegalTransition - requested status change is not in the table.
	ErrIllegalTransition = &Error{Code: "illegal_transition", HTTPStatus: http.StatusBadRequest, Message: "illegal status transition"}

	// ErrVersionConflict - stale expected version; caller must re-read.
	ErrVersionConflict = &Error{Code: "version_conflict", HTTPStatus: http.StatusConflict, Message: "reservation was modified concurrently"}

	// ErrUnauthorized - caller lacks rights for the operation.
	ErrUnauthorized = &Error{Code: "unauthorized", HTTPStatus: http.StatusForbidden, Message: "not allowed"}

	// ErrNotFound - unknown reservation or court.
	ErrNotFound = &Error{Code: "not_found", HTTPStatus: http.StatusNotFound, Message: "not found"}
)

// HTTPStatusOf extracts the reportable status from err, defaulting to 500.
func HTTPStatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.HTTPStatus
	}
	return http.StatusInternalServerError
}
