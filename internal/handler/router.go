package handler

import (
	"context"
	"net/http"
	"strings"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/middleware"
	"lambda-go-template/internal/pipeline"
	"lambda-go-template/internal/response"
)

// AnyMethod registers a route for every HTTP method.
const AnyMethod = "ANY"

// Router maps "METHOD /path" to a pipeline. It is filled at startup and only
// read afterwards.
type Router struct {
	routes map[string]*pipeline.Pipeline[middleware.Event]
}

// NewRouter returns a router serving the demo functions:
//
//	POST /hello
//	ANY  /error
func NewRouter(d Deps) *Router {
	r := &Router{routes: make(map[string]*pipeline.Pipeline[middleware.Event])}
	r.Handle(http.MethodPost, "/hello", Hello(d))
	r.Handle(AnyMethod, "/error", Failure(d))
	return r
}

// Handle registers p for method and path.
func (r *Router) Handle(method, path string, p *pipeline.Pipeline[middleware.Event]) {
	r.routes[routeKey(method, path)] = p
}

// Dispatch invokes the pipeline registered for the event. The API Gateway
// route key is tried first, then the request method and path with any named
// stage prefix removed. Unmatched events get a 404 envelope.
func (r *Router) Dispatch(ctx context.Context, ev middleware.Event) response.Envelope {
	method := strings.ToUpper(ev.RequestContext.HTTP.Method)
	path := stagePath(ev)

	if p, ok := r.lookup(ev.RouteKey, method, path); ok {
		return p.Invoke(ctx, ev)
	}

	env, err := response.Error(httperr.NotFound(httperr.WithMessage("No route for " + method + " " + path)))
	if err != nil {
		return response.Fallback()
	}
	return env
}

func (r *Router) lookup(key, method, path string) (*pipeline.Pipeline[middleware.Event], bool) {
	if key != "" && key != "$default" {
		m, rest, _ := strings.Cut(key, " ")
		if p, ok := r.routes[routeKey(m, rest)]; ok {
			return p, true
		}
	}
	if p, ok := r.routes[routeKey(method, path)]; ok {
		return p, true
	}
	p, ok := r.routes[routeKey(AnyMethod, path)]
	return p, ok
}

// stagePath returns the raw path without the "/{stage}" prefix API Gateway
// adds on named stages.
func stagePath(ev middleware.Event) string {
	path := ev.RawPath
	if stage := ev.RequestContext.Stage; stage != "" && stage != "$default" {
		prefix := "/" + stage
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			path = strings.TrimPrefix(path, prefix)
		}
	}
	if path == "" {
		path = "/"
	}
	return path
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}
