package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json names so messages match what
// the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags of s and returns a
// common.ErrorValidation carrying one message per failed field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, describeField(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "number":
		return fe.Field() + " must contain digits only"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
