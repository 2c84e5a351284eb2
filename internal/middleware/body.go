package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/goccy/go-json"

	"lambda-go-template/internal/httperr"
)

const (
	msgMissingBody   = "Missing request body"
	msgMalformedJSON = "Invalid or malformed JSON was provided"
)

// JSONBody decodes the event body into a new T and stores the *T in
// Request.Body. A missing body is a 400, undecodable JSON a 422, and a value
// of the wrong type a validation failure. When T is a struct or a map the
// body must be a JSON object; null, arrays and scalars are rejected.
func JSONBody[T any]() Hook {
	target := reflect.TypeFor[T]()
	object := target.Kind() == reflect.Struct || target.Kind() == reflect.Map
	return func(_ context.Context, req *Request) error {
		raw, err := rawBody(req.Event)
		if err != nil {
			return httperr.UnprocessableEntity(httperr.WithMessage(msgMalformedJSON))
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			return httperr.BadRequest(httperr.WithMessage(msgMissingBody))
		}
		if object && raw[0] != '{' && json.Valid(raw) {
			return &ValidationError{Fields: []FieldError{{
				Field:   "body",
				Rule:    "type",
				Param:   "object",
				Message: "body must be of type object",
			}}}
		}

		v := new(T)
		if err := json.Unmarshal(raw, v); err != nil {
			return decodeError(err, target)
		}
		req.Body = v
		return nil
	}
}

func rawBody(ev Event) ([]byte, error) {
	if !ev.IsBase64Encoded {
		return []byte(ev.Body), nil
	}
	b, err := base64.StdEncoding.DecodeString(ev.Body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return b, nil
}

func decodeError(err error, target reflect.Type) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := jsonName(target, typeErr.Field)
		if field == "" {
			field = "body"
		}
		expected := "valid value"
		if typeErr.Type != nil {
			expected = typeErr.Type.String()
		}
		return &ValidationError{Fields: []FieldError{{
			Field:   field,
			Rule:    "type",
			Param:   expected,
			Message: fmt.Sprintf("%s must be of type %s", field, expected),
		}}}
	}
	return httperr.UnprocessableEntity(httperr.WithMessage(msgMalformedJSON))
}

// jsonName maps the Go field name reported by the decoder back to the key
// the caller sent.
func jsonName(t reflect.Type, goName string) string {
	if t.Kind() != reflect.Struct || goName == "" {
		return goName
	}
	f, ok := t.FieldByName(goName)
	if !ok {
		return goName
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return goName
	}
	return name
}
