package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const msgValidationFailed = "Event object failed validation"

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError reports a body that failed validation. It carries its own
// status and name, so the classifier keeps it as a 400 and exposes the
// field errors under details.data.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string { return msgValidationFailed }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *ValidationError) Name() string { return "Bad Request" }

func (e *ValidationError) Details() any {
	if len(e.Fields) == 0 {
		return nil
	}
	return e.Fields
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks Request.Body against its `validate` struct tags. A nil body
// is left alone; JSONBody rejects missing bodies earlier.
func Validate() Hook {
	return func(ctx context.Context, req *Request) error {
		if req.Body == nil {
			return nil
		}
		err := validate.StructCtx(ctx, req.Body)
		if err == nil {
			return nil
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate body: %w", err)
		}
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: fmt.Sprintf("%s failed on the %q rule", fe.Field(), fe.Tag()),
			})
		}
		return &ValidationError{Fields: fields}
	}
}
