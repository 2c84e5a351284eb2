package httperr

import (
	"net/http"
	"slices"
)

// canonicalNames is the closed catalogue of built-in variants.
// It is never written after package initialization.
var canonicalNames = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Unprocessable Entity",
	http.StatusTooManyRequests:     "Too Many Requests",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusBadGateway:          "Bad Gateway",
	http.StatusServiceUnavailable:  "Service Unavailable",
	http.StatusGatewayTimeout:      "Gateway Timeout",
}

// IsCanonical reports whether code has a built-in variant.
func IsCanonical(code int) bool {
	_, ok := canonicalNames[code]
	return ok
}

// CanonicalStatuses returns the built-in status codes in ascending order.
func CanonicalStatuses() []int {
	codes := make([]int, 0, len(canonicalNames))
	for code := range canonicalNames {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// FromStatus returns the built-in variant for a canonical code.
// The second result is false when code is not in the catalogue.
func FromStatus(code int, opts ...Option) (*Error, bool) {
	if !IsCanonical(code) {
		return nil, false
	}
	return variant(code, opts), true
}

func nameFor(code int) string {
	if name, ok := canonicalNames[code]; ok {
		return name
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Error"
}

func variant(code int, opts []Option) *Error {
	name := canonicalNames[code]
	e := &Error{statusCode: code, name: name, message: name}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BadRequest returns a 400 Bad Request error.
func BadRequest(opts ...Option) *Error { return variant(http.StatusBadRequest, opts) }

// Unauthorized returns a 401 Unauthorized error. Keep credentials and
// identity hints out of its details.
func Unauthorized(opts ...Option) *Error { return variant(http.StatusUnauthorized, opts) }

// Forbidden returns a 403 Forbidden error.
func Forbidden(opts ...Option) *Error { return variant(http.StatusForbidden, opts) }

// NotFound returns a 404 Not Found error.
func NotFound(opts ...Option) *Error { return variant(http.StatusNotFound, opts) }

// Conflict returns a 409 Conflict error.
func Conflict(opts ...Option) *Error { return variant(http.StatusConflict, opts) }

// UnprocessableEntity returns a 422 Unprocessable Entity error.
func UnprocessableEntity(opts ...Option) *Error {
	return variant(http.StatusUnprocessableEntity, opts)
}

// TooManyRequests returns a 429 Too Many Requests error. Retry hints belong in
// its details, e.g. {"retryAfter": 30}.
func TooManyRequests(opts ...Option) *Error { return variant(http.StatusTooManyRequests, opts) }

// InternalServerError returns a 500 Internal Server Error.
func InternalServerError(opts ...Option) *Error {
	return variant(http.StatusInternalServerError, opts)
}

// BadGateway returns a 502 Bad Gateway error.
func BadGateway(opts ...Option) *Error { return variant(http.StatusBadGateway, opts) }

// ServiceUnavailable returns a 503 Service Unavailable error.
func ServiceUnavailable(opts ...Option) *Error {
	return variant(http.StatusServiceUnavailable, opts)
}

// GatewayTimeout returns a 504 Gateway Timeout error.
func GatewayTimeout(opts ...Option) *Error { return variant(http.StatusGatewayTimeout, opts) }
