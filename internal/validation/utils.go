package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/devevent/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is a request payload that checks itself, usually by running
// Validator().Struct on its tagged fields. Checks that tags cannot express
// return CustomValidationErrors.
type Validatable interface {
	Validate() error
}

type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return validationFailed
}

const validationFailed = "Validation failed"

// BindAndValidate binds path, query and body data into payload and validates it.
//
// payload must be a pointer; a 400 *errs.HTTPError with field errors is
// returned when binding or validation fails.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if msg, fields := validateStruct(payload); fields != nil {
		return errs.NewBadRequestError(msg, true, nil, fields, nil)
	}

	return nil
}

// bindErrorMessage pulls the client-facing message out of echo's bind error.
func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request payload"
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	err := v.Validate()
	if err == nil {
		return "", nil
	}
	return validationFailed, fieldErrors(err)
}

func fieldErrors(err error) []errs.FieldError {
	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		out := make([]errs.FieldError, 0, len(custom))
		for _, e := range custom {
			out = append(out, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return out
	}

	var tagged validator.ValidationErrors
	if !errors.As(err, &tagged) {
		return []errs.FieldError{{Field: "request", Error: err.Error()}}
	}

	out := make([]errs.FieldError, 0, len(tagged))
	for _, e := range tagged {
		out = append(out, errs.FieldError{Field: fieldName(e), Error: tagMessage(e)})
	}
	return out
}

var fixedMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"url":      "must be a valid URL",
	"http_url": "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"uuid4":    "must be a valid UUID",
	"slug":     SlugFormatMessage,
	"dive":     "some items are invalid",
}

// tagMessage renders a failed rule as a phrase that follows the field name.
func tagMessage(e validator.FieldError) string {
	if msg, ok := fixedMessages[e.Tag()]; ok {
		return msg
	}

	switch e.Tag() {
	case "min":
		return bound("must be at least", "must contain at least", e)
	case "max":
		return bound("must not exceed", "must not contain more than", e)
	case "oneof":
		return "must be one of: " + e.Param()
	}

	if e.Param() == "" {
		return e.Tag()
	}
	return e.Tag() + "=" + e.Param()
}

// bound words a length or size limit for strings, collections and numbers.
func bound(scalar, collection string, e validator.FieldError) string {
	switch e.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s %s characters", scalar, e.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s %s items", collection, e.Param())
	default:
		return fmt.Sprintf("%s %s", scalar, e.Param())
	}
}

// fieldName reports the offending field in the casing clients send it,
// e.g. "eventId" or "tags[1]".
func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	if ns == "" {
		ns = e.Field()
	}
	if ns == "" {
		return ns
	}
	return strings.ToLower(ns[:1]) + ns[1:]
}
