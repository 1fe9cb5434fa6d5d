// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields, email formats or slugs) defined in struct tags
// and extracts validation errors into a format the client can
// understand.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// SlugPattern matches lowercase alphanumeric words separated by single hyphens.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// SlugFormatMessage explains SlugPattern to API clients.
const SlugFormatMessage = "must be lowercase, alphanumeric, and may include single hyphens between words"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the custom tags registered:
//
//	slug  - value matches SlugPattern
//
// Field errors are reported with json names ("eventId") when a json tag exists.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return IsValidSlug(fl.Field().String())
		})
	})
	return validate
}

// IsValidSlug reports whether s is a well-formed slug.
func IsValidSlug(s string) bool {
	return SlugPattern.MatchString(s)
}
