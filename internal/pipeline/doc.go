// Package pipeline wraps a function handler with ordered hooks and turns
// whatever the handler produces into exactly one response envelope.
//
// A pipeline is assembled once, at handler-definition time, and is
// immutable afterwards:
//
//	hello := pipeline.New(helloHandler).
//	    Before(parseBody, validateBody).
//	    OnError(
//	        pipeline.ClassifyError[Event],
//	        pipeline.ErrorResponse[Event],
//	    ).
//	    Build()
//
//	env := hello.Invoke(ctx, event)
//
// # Lifecycle
//
//	Received -> BeforeHooks -> Executing -> Success | Failed -> ResponseHooks -> Responded
//
// Before hooks run in registration order; the first failure skips the
// remaining before hooks and the handler. After hooks run in order on success
// and may replace Request.Response; a failing after hook moves the invocation
// to Failed. On failure every onError hook runs, in order, even after one of
// them has assigned an envelope. The last call to Request.Respond wins.
//
// A hook or handler that panics or returns an error while the invocation is
// failing is treated as the new failure and classified like any other. When
// no hook assigned an envelope the pipeline classifies the stored failure
// itself, and if even that cannot be serialized it answers with
// response.Fallback. Invoke never returns an unclassified failure.
//
// Pipelines hold no per-invocation state and are safe for concurrent use.
package pipeline
