package api

import (
	"errors"
	"net/http"

	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/service"
	"github.com/hdhector/taskflow/internal/service/auth"
	"github.com/hdhector/taskflow/internal/store"
)

// MapErrorToStatusCode translates domain, store and service errors into
// the HTTP status code the client should see.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		isDomainValidationError(err),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error. Internal
// details never leak to the response body; they are logged server-side.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, service.ErrQuotaExceeded):
		return service.QuotaExceededMessage

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrCommentNotFound):
		return "Comment not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrForbidden):
		return "You do not have permission to perform this action"

	case errors.Is(err, store.ErrEmailExists):
		return "Email address is already registered"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username is already taken"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Refresh token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid or missing token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case isDomainValidationError(err), errors.Is(err, domain.ErrValidation):
		return err.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An internal error occurred"
	}
}

// isDomainValidationError reports whether err is one of the entity-level
// validation sentinels, whose messages are safe to echo back verbatim.
func isDomainValidationError(err error) bool {
	validationErrors := []error{
		domain.ErrTaskTitleEmpty,
		domain.ErrTaskTitleTooLong,
		domain.ErrInvalidPriority,
		domain.ErrInvalidStatus,
		domain.ErrCommentContentEmpty,
		domain.ErrInvalidEmail,
		domain.ErrEmptyEmail,
		domain.ErrEmptyUsername,
		domain.ErrUsernameTooLong,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrEmptyPassword,
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
