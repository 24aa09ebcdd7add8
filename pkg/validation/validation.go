package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	dErrors "welcome/pkg/domain-errors"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate validates a struct using the default validator and returns a domain error
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// Var validates a single value against a tag expression, e.g. "url".
func Var(field string, value any, tag string) error {
	if err := defaultValidator.Var(value, tag); err != nil {
		return dErrors.New(dErrors.CodeValidation, message(field, err))
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	fieldName := fe.Field()
	if fieldName == "" {
		fieldName = fe.StructField()
	}
	return describe(toSnakeCase(fieldName), fe)
}

func message(field string, err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return fmt.Sprintf("%s is invalid", field)
	}
	return describe(field, validationErrs[0])
}

// messages maps a validator tag to a format taking the field name and the
// tag parameter.
var messages = map[string]string{
	"required":      "%s is required",
	"url":           "%s must be a valid url",
	"http_url":      "%s must be a valid url",
	"min":           "%s must be at least %s",
	"oneof":         "%s must be one of [%s]",
	"notblank":      "%s must not be blank",
	"required_if":   "%s is required when %s",
	"required_with": "%s is required when %s is set",
}

func describe(field string, fe validator.FieldError) string {
	format, ok := messages[fe.ActualTag()]
	switch {
	case !ok && field == "":
		return "invalid request body"
	case !ok:
		return field + " is invalid"
	case fe.ActualTag() == "required_with":
		return fmt.Sprintf(format, field, toSnakeCase(fe.Param()))
	case strings.Count(format, "%s") == 2:
		return fmt.Sprintf(format, field, fe.Param())
	default:
		return fmt.Sprintf(format, field)
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 &&
			(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
