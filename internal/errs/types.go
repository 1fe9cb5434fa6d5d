package errs

import (
	"net/http"
)

// newHTTPError fills Code from the status text: 404 becomes "NOT_FOUND".
func newHTTPError(status int, message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Override: override,
	}
}

func (e *HTTPError) withCode(code *string) *HTTPError {
	if code != nil {
		e.Code = *code
	}
	return e
}

func NewUnauthorizedError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, message, override)
}

func NewForbiddenError(message string, override bool) *HTTPError {
	return newHTTPError(http.StatusForbidden, message, override)
}

// NewBadRequestError builds a 400. A nil code keeps "BAD_REQUEST"; field
// errors and action may be nil.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, message, override).withCode(code)
	e.Errors = errors
	e.Action = action
	return e
}

func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, override).withCode(code)
}

// NewTooManyRequestsError builds a 429 whose message is safe to show.
func NewTooManyRequestsError(message string) *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, message, true)
}

// NewInternalServerError hides the cause behind the generic status text.
// Log the real error where it happens.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false)
}
