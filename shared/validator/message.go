package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required":  "{field} is required",
	"email":     "{field} must be a valid email address",
	"eqfield":   "{field} must match {param}",
	"oneof":     "{field} must be one of [{param}]",
	"min":       "{field} must be at least {param} long",
	"max":       "{field} must be at most {param} long",
	"gte":       "{field} must be greater than or equal to {param}",
	"lte":       "{field} must be less than or equal to {param}",
	"datetime":  "{field} must be formatted as {param}",
	"timeofday": "{field} must be a time of day formatted as HH:MM",
}

// describe renders every field error, in struct order, as one sentence list.
func describe(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrors))

	for _, fieldErr := range fieldErrors {
		parts = append(parts, sentence(fieldErr))
	}

	return strings.Join(parts, "; ")
}

func sentence(fieldErr val.FieldError) string {
	field := fieldErr.Field()
	if field == "" {
		field = "value"
	}

	template, ok := templates[fieldErr.Tag()]
	if !ok {
		return field + " failed on " + fieldErr.Tag()
	}

	return strings.NewReplacer("{field}", field, "{param}", fieldErr.Param()).Replace(template)
}
