package pipeline

import (
	"context"
	"net/http"
	"slices"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/response"
)

// Handler is the function body. It returns the success value, or a
// response.Envelope to answer verbatim.
type Handler[E any] func(ctx context.Context, req *Request[E]) (any, error)

// Hook runs at a fixed phase of the invocation.
type Hook[E any] func(ctx context.Context, req *Request[E]) error

// Middleware bundles hooks for several phases, registered together by Use.
// Nil hooks are skipped.
type Middleware[E any] struct {
	Before  Hook[E]
	After   Hook[E]
	OnError Hook[E]
}

// Builder collects hooks at setup time.
type Builder[E any] struct {
	handler Handler[E]
	before  []Hook[E]
	after   []Hook[E]
	onError []Hook[E]
}

// New starts a pipeline around handler.
func New[E any](handler Handler[E]) *Builder[E] {
	return &Builder[E]{handler: handler}
}

// Before registers hooks that run before the handler.
func (b *Builder[E]) Before(hooks ...Hook[E]) *Builder[E] {
	b.before = append(b.before, hooks...)
	return b
}

// After registers hooks that run after a successful handler.
func (b *Builder[E]) After(hooks ...Hook[E]) *Builder[E] {
	b.after = append(b.after, hooks...)
	return b
}

// OnError registers hooks that run when the invocation fails.
func (b *Builder[E]) OnError(hooks ...Hook[E]) *Builder[E] {
	b.onError = append(b.onError, hooks...)
	return b
}

// Use registers each phase of the middlewares, in order.
func (b *Builder[E]) Use(mws ...Middleware[E]) *Builder[E] {
	for _, mw := range mws {
		if mw.Before != nil {
			b.before = append(b.before, mw.Before)
		}
		if mw.After != nil {
			b.after = append(b.after, mw.After)
		}
		if mw.OnError != nil {
			b.onError = append(b.onError, mw.OnError)
		}
	}
	return b
}

// Build freezes the registered hooks. Later changes to the builder do not
// affect the returned pipeline.
func (b *Builder[E]) Build() *Pipeline[E] {
	return &Pipeline[E]{
		handler: b.handler,
		before:  slices.Clone(b.before),
		after:   slices.Clone(b.after),
		onError: slices.Clone(b.onError),
	}
}

// Pipeline is an immutable handler plus its hooks.
type Pipeline[E any] struct {
	handler Handler[E]
	before  []Hook[E]
	after   []Hook[E]
	onError []Hook[E]
}

// Invoke runs one invocation for event and returns its envelope.
func (p *Pipeline[E]) Invoke(ctx context.Context, event E) (env response.Envelope) {
	req := &Request[E]{Event: event, Status: http.StatusOK, phase: PhaseReceived}
	defer func() {
		if recover() != nil {
			env = response.Fallback()
		}
		req.phase = PhaseResponded
	}()

	req.phase = PhaseBeforeHooks
	for _, hook := range p.before {
		if err := call(ctx, req, hook); err != nil {
			return p.fail(ctx, req, err)
		}
	}

	req.phase = PhaseExecuting
	value, err := p.execute(ctx, req)
	if err != nil {
		return p.fail(ctx, req, err)
	}
	req.Response = value

	req.phase = PhaseSuccess
	for _, hook := range p.after {
		if err := call(ctx, req, hook); err != nil {
			return p.fail(ctx, req, err)
		}
	}

	req.phase = PhaseResponseHooks
	if env, ok := req.Envelope(); ok {
		return env
	}
	env, err = successEnvelope(req)
	if err != nil {
		return p.fail(ctx, req, err)
	}
	return env
}

func (p *Pipeline[E]) execute(ctx context.Context, req *Request[E]) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, httperr.Recovered(r)
		}
	}()
	if p.handler == nil {
		return nil, nil
	}
	return p.handler(ctx, req)
}

func (p *Pipeline[E]) fail(ctx context.Context, req *Request[E], err error) response.Envelope {
	req.phase = PhaseFailed
	req.Err = err
	req.envelope = nil

	for _, hook := range p.onError {
		if hookErr := call(ctx, req, hook); hookErr != nil {
			req.Err = hookErr
		}
	}

	req.phase = PhaseResponseHooks
	if env, ok := req.Envelope(); ok {
		return env
	}
	env, buildErr := response.Error(httperr.Classify(req.Err))
	if buildErr != nil {
		return response.Fallback()
	}
	return env
}

func call[E any](ctx context.Context, req *Request[E], hook Hook[E]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = httperr.Recovered(r)
		}
	}()
	return hook(ctx, req)
}

func successEnvelope[E any](req *Request[E]) (response.Envelope, error) {
	if env, ok := req.Response.(response.Envelope); ok {
		return env, nil
	}
	return response.Success(req.Status, req.Response)
}
