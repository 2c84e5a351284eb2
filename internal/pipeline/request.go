package pipeline

import (
	"lambda-go-template/internal/response"
)

// Phase is the lifecycle state of one invocation.
type Phase int

const (
	PhaseReceived Phase = iota
	PhaseBeforeHooks
	PhaseExecuting
	PhaseSuccess
	PhaseFailed
	PhaseResponseHooks
	PhaseResponded
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseReceived:
		return "received"
	case PhaseBeforeHooks:
		return "before_hooks"
	case PhaseExecuting:
		return "executing"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	case PhaseResponseHooks:
		return "response_hooks"
	case PhaseResponded:
		return "responded"
	default:
		return "unknown"
	}
}

// Request holds the mutable slots of a single invocation. Hooks read and
// write it in turn; it is never shared between invocations.
type Request[E any] struct {
	// Event is the raw trigger event.
	Event E
	// Body is the parsed and validated request body, set by before hooks.
	Body any
	// Response is the pending success value. After hooks may replace it.
	Response any
	// Status is the success status code, 200 unless a hook changes it.
	Status int
	// Err is the stored failure while the invocation is failing.
	Err error

	phase    Phase
	envelope *response.Envelope
	values   map[string]any
}

// Phase returns the current lifecycle state.
func (r *Request[E]) Phase() Phase { return r.phase }

// Respond assigns the final envelope. A later call overwrites an earlier one.
func (r *Request[E]) Respond(env response.Envelope) {
	r.envelope = &env
}

// Envelope returns the assigned envelope, if any.
func (r *Request[E]) Envelope() (response.Envelope, bool) {
	if r.envelope == nil {
		return response.Envelope{}, false
	}
	return *r.envelope, true
}

// Set stores a per-invocation value for later hooks.
func (r *Request[E]) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = v
}

// Get returns a value stored with Set.
func (r *Request[E]) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}
