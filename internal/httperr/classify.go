package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"runtime/debug"

	"lambda-go-template/internal/shared"
)

// statusCoder and statuser are the two shapes of a foreign HTTP-like error.
type statusCoder interface {
	StatusCode() int
}

type statuser interface {
	Status() int
}

type namer interface {
	Name() string
}

// kindStatus maps domain kinds to canonical statuses.
var kindStatus = map[shared.Kind]int{
	shared.KindValidation:        http.StatusBadRequest,
	shared.KindUnauthorized:      http.StatusUnauthorized,
	shared.KindForbidden:         http.StatusForbidden,
	shared.KindNotFound:          http.StatusNotFound,
	shared.KindConflict:          http.StatusConflict,
	shared.KindRateLimited:       http.StatusTooManyRequests,
	shared.KindDependencyFailure: http.StatusBadGateway,
	shared.KindUnavailable:       http.StatusServiceUnavailable,
	shared.KindTimeout:           http.StatusGatewayTimeout,
	shared.KindCanceled:          http.StatusInternalServerError,
	shared.KindInternal:          http.StatusInternalServerError,
	shared.KindInvariantViolated: http.StatusInternalServerError,
}

// Classify maps an arbitrary failure onto the taxonomy. It never panics and
// always returns a non-nil *Error.
//
// Rules, first match wins:
//  1. an *Error in the chain is returned unchanged
//  2. a nil failure becomes a generic 500
//  3. a foreign error exposing StatusCode() or Status() keeps its status, name
//     and message; the result of a Details() method of any return type is
//     wrapped as {"data": details}
//  4. an error marked with a shared.Kind maps to that kind's status with the
//     default message
//  5. anything else becomes a generic 500
//
// The text of unknown failures is never copied into the result.
func Classify(err error) *Error {
	e, _ := classify(err)
	return e
}

// IsUnknown reports whether Classify would answer err with the generic 500
// because nothing about it is recognized. Such failures are worth forwarding
// to logs and the failure journal before classification.
func IsUnknown(err error) bool {
	_, known := classify(err)
	return !known
}

func classify(err error) (e *Error, known bool) {
	defer func() {
		if recover() != nil {
			e, known = InternalServerError(), false
		}
	}()

	if err == nil {
		return InternalServerError(), false
	}

	var classified *Error
	if errors.As(err, &classified) {
		if classified == nil {
			return InternalServerError(), false
		}
		return classified, true
	}

	if src, code, ok := foreignStatus(err); ok {
		if foreign, ok := fromForeign(src, code); ok {
			return foreign, true
		}
	}

	if status, ok := kindStatus[shared.KindOf(err)]; ok {
		return variant(status, nil), true
	}

	return InternalServerError(), false
}

// foreignStatus finds the first error in the chain carrying a status.
// StatusCode() is preferred over Status().
func foreignStatus(err error) (error, int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.(error), sc.StatusCode(), true
	}
	var st statuser
	if errors.As(err, &st) {
		return st.(error), st.Status(), true
	}
	return nil, 0, false
}

func fromForeign(src error, code int) (*Error, bool) {
	name := nameFor(code)
	if n, ok := src.(namer); ok && n.Name() != "" {
		name = n.Name()
	}
	message := src.Error()

	var details map[string]any
	if data := foreignDetails(src); data != nil {
		details = map[string]any{"data": data}
	}

	switch {
	case IsCanonical(code) && code < http.StatusInternalServerError:
		return New(code, name, message, details), true
	case IsCanonical(code):
		// upstream and internal failures keep their status but never their text
		return New(code, name, canonicalNames[code], nil), true
	case code >= http.StatusBadRequest && code < http.StatusInternalServerError:
		return BadRequest(WithMessage(message), WithDetails(details)), true
	default:
		return nil, false
	}
}

// foreignDetails calls a Details method taking no arguments and returning a
// single value, whatever that value's type is. Nil results are dropped.
func foreignDetails(src error) any {
	m := reflect.ValueOf(src).MethodByName("Details")
	if !m.IsValid() {
		return nil
	}
	if t := m.Type(); t.NumIn() != 0 || t.NumOut() != 1 {
		return nil
	}
	out := m.Call(nil)[0]
	switch out.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		if out.IsNil() {
			return nil
		}
	}
	return out.Interface()
}

// PanicError carries a value recovered from a panic.
type PanicError struct {
	Value any
	Stack []byte
}

// Recovered converts a value returned by recover() into an error. Call it
// from the deferred function that recovered, so the captured stack points at
// the panic site.
func Recovered(v any) error {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Unwrap exposes a panicked error value so a panic(httperr.NotFound()) is
// classified like a returned one.
func (p *PanicError) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}
