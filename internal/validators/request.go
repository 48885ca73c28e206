package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tagNotBlank rejects strings made only of whitespace.
const tagNotBlank = "notblank"

// RequestValidator checks API request models against their `validate` tags.
// Reported field names are the JSON names.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registering a built-in style tag cannot fail
	_ = v.RegisterValidation(tagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &RequestValidator{validate: v}
}

// Validate checks obj, or only the named struct fields of obj when fields
// are given.
func (r *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = r.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = r.validate.StructCtx(ctx, obj)
	}
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return ErrUnsupportedType
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", tagNotBlank:
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "ip":
		return fe.Field() + " must be a valid IP address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag())
	}
}
