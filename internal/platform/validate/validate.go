// Package validate checks form input structs against their `validate` tags
// and turns the first failure into a message fit for a flash banner.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("invalid input")

var (
	once sync.Once
	v    *validator.Validate

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("form"); name != "" && name != "-" {
				return name
			}
			return strings.ToLower(f.Name)
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
	return v
}

// Struct validates s. The returned error wraps ErrInvalid and its text
// describes the first offending field.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, message(verrs[0]))
}

// Message strips the ErrInvalid prefix so handlers can show just the reason.
func Message(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, ErrInvalid.Error()+": ")
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i > 0 {
		field = field[:i]
	}
	field = strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "please enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "username":
		return fmt.Sprintf("%s may only contain letters, digits and underscores", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
