package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// single_rune: exactly one character, used for id delimiters
	_ = validate.RegisterValidation("single_rune", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) == 1
	})
}

// Struct validates v against its `validate` struct tags and returns the first failure
// in a readable form.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// Var validates a single value against a tag expression such as "hexcolor".
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: %s", field, describe(verrs[0]))
		}
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	return fmt.Errorf("%s: %s", strings.TrimPrefix(e.Namespace(), rootName(e)), describe(e))
}

func rootName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[:i+1]
	}
	return ""
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min", "gte":
		return "must be at least " + e.Param()
	case "max", "lte":
		return "must not exceed " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "oneof":
		return "must be one of [" + e.Param() + "]"
	case "hexcolor":
		return "must be a hex colour such as #1f77b4"
	case "single_rune":
		return "must be exactly one character"
	default:
		return fmt.Sprintf("validation failed (%s)", e.Tag())
	}
}
