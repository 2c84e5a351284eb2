// Package response builds the final envelope handed back to the trigger.
package response

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"lambda-go-template/internal/httperr"
)

// ErrSerialize is returned when a payload cannot be encoded as JSON.
var ErrSerialize = errors.New("response: payload is not serializable")

// fallbackBody is the last-resort body. It is a literal so producing it can
// never fail.
const fallbackBody = `{"statusCode":500,"name":"Internal Server Error","message":"Internal Server Error"}`

// Envelope is the {statusCode, body} pair returned to the trigger layer.
// Body is empty when there is no payload.
type Envelope struct {
	StatusCode int
	Body       string
}

// Success encodes payload as the body. A nil payload yields an empty body and
// a zero status defaults to 200.
func Success(status int, payload any) (Envelope, error) {
	if status == 0 {
		status = http.StatusOK
	}
	if payload == nil {
		return Envelope{StatusCode: status}, nil
	}
	body, err := encode(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{StatusCode: status, Body: body}, nil
}

// Error encodes a classified error using its wire form.
func Error(e *httperr.Error) (Envelope, error) {
	if e == nil {
		return Envelope{}, fmt.Errorf("%w: nil error", ErrSerialize)
	}
	b, err := e.MarshalJSON()
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return Envelope{StatusCode: e.StatusCode(), Body: string(b)}, nil
}

// Fallback returns the hard-coded 500 envelope used when nothing else worked.
func Fallback() Envelope {
	return Envelope{StatusCode: http.StatusInternalServerError, Body: fallbackBody}
}

func encode(v any) (body string, err error) {
	// some encoders panic on exotic values instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			body, err = "", fmt.Errorf("%w: %v", ErrSerialize, r)
		}
	}()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
