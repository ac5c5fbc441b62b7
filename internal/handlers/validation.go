package handlers

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// contactEmailPattern is the same loose check the site form applies
var contactEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

var registerOnce sync.Once

// RegisterValidators adds the contact form tags to gin's validator engine.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		if err = v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			return
		}
		err = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
			return contactEmailPattern.MatchString(fl.Field().String())
		})
	})
	return err
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format.
// Order follows struct field order, one entry per field.
func ParseValidationErrors(err error) []ValidationError {
	var result []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			result = append(result, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return result
}

func getErrorMessage(fe validator.FieldError) string {
	label := fe.StructField()
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "contactemail", "email":
		return "Please enter a valid email"
	case "max":
		return label + " must not exceed " + fe.Param() + " characters"
	default:
		return label + " is invalid"
	}
}
