package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"salon/shared/constant"
	"salon/shared/failure"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())

	// Errors name fields the way clients send them.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return field.Name
		}

		return name
	})

	if err := v.RegisterValidation("timeofday", timeOfDay); err != nil {
		panic(err)
	}

	return v
}

func timeOfDay(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := time.Parse(constant.TimeOfDayFormat, value)

	return err == nil
}

// Validate decodes a JSON body into data and checks its validate tags.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("malformed request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(describe(err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateVar checks a single value, such as a query parameter, against tag.
func ValidateVar(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return failure.BadRequestFromString(describe(err)) //nolint:wrapcheck
	}

	return nil
}
