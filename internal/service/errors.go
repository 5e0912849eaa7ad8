package service

import "errors"

// MaxActiveTasks is the maximum number of non-done tasks a user may own at
// once. The quota counts tasks whose status is not done; a task being
// updated is excluded from its own count.
const MaxActiveTasks = 5

// QuotaExceededMessage is the user-facing text for quota violations.
// Client UIs display it verbatim, so the wording is fixed.
const QuotaExceededMessage = "Máximo 5 tareas activas por usuario."

// Common service errors
var (
	// ErrForbidden is returned when the authorization policy denies the
	// requested operation for the acting user.
	ErrForbidden = errors.New("operation not permitted for this user")

	// ErrQuotaExceeded is returned when a create or update would leave the
	// actor with more than MaxActiveTasks active tasks. It is a business
	// rule violation surfaced as a validation failure.
	ErrQuotaExceeded = errors.New(QuotaExceededMessage)
)
