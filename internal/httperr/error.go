package httperr

import (
	"bytes"
	"maps"

	"github.com/goccy/go-json"
)

// Error is a classified failure: a canonical HTTP status with its name, a
// caller-safe message and optional structured details.
//
// Values are immutable once constructed. Build them with the named
// constructors (BadRequest, TooManyRequests, ...), FromStatus or New.
type Error struct {
	statusCode int
	name       string
	message    string
	details    map[string]any
}

// Option customizes a built-in variant at construction time.
type Option func(*Error)

// WithMessage overrides the default message. An empty message keeps the default.
func WithMessage(msg string) Option {
	return func(e *Error) {
		if msg != "" {
			e.message = msg
		}
	}
}

// WithDetails attaches structured details. The map is copied; an empty map
// leaves the error without details.
func WithDetails(details map[string]any) Option {
	return func(e *Error) { e.details = cloneDetails(details) }
}

// New builds an ad-hoc Error. Codes outside the catalogue are accepted.
// An empty name falls back to the canonical name for the code and an empty
// message falls back to the name.
func New(statusCode int, name, message string, details map[string]any) *Error {
	if name == "" {
		name = nameFor(statusCode)
	}
	if message == "" {
		message = name
	}
	return &Error{
		statusCode: statusCode,
		name:       name,
		message:    message,
		details:    cloneDetails(details),
	}
}

// Error implements the error interface. It returns the caller-facing message.
func (e *Error) Error() string { return e.message }

// StatusCode returns the HTTP status code.
func (e *Error) StatusCode() int { return e.statusCode }

// Name returns the canonical label, e.g. "Too Many Requests".
func (e *Error) Name() string { return e.name }

// Message returns the human readable description.
func (e *Error) Message() string { return e.message }

// Details returns a copy of the structured details, or nil.
func (e *Error) Details() map[string]any { return cloneDetails(e.details) }

// wireError is the JSON shape other services rely on.
type wireError struct {
	StatusCode int            `json:"statusCode"`
	Name       string         `json:"name"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

// MarshalJSON encodes the error as {"statusCode","name","message","details"?}.
func (e *Error) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wireError{
		StatusCode: e.statusCode,
		Name:       e.name,
		Message:    e.message,
		Details:    e.details,
	}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON. Whole numbers
// in details come back as int and other numbers as float64, so details built
// from Go ints survive a round trip unchanged.
func (e *Error) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var w wireError
	if err := dec.Decode(&w); err != nil {
		return err
	}
	e.statusCode = w.StatusCode
	e.name = w.Name
	e.message = w.Message
	e.details = cloneDetails(w.Details)
	normalizeNumbers(e.details)
	return nil
}

func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, x := range v {
			v[k] = normalizeNumbers(x)
		}
		return v
	case []any:
		for i, x := range v {
			v[i] = normalizeNumbers(x)
		}
		return v
	case json.Number:
		if i, err := v.Int64(); err == nil && int64(int(i)) == i {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	}
	return v
}

func cloneDetails(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	return maps.Clone(in)
}
