// Package middleware provides the peripheral hooks registered around the
// demo functions: body parsing, validation, logging and the failure journal.
//
// All hooks operate on API Gateway HTTP API (payload v2) events, the event
// type produced by both trigger adapters.
package middleware

import (
	"github.com/aws/aws-lambda-go/events"

	"lambda-go-template/internal/pipeline"
)

type (
	// Event is the trigger event every pipeline in this module handles.
	Event = events.APIGatewayV2HTTPRequest
	// Request is the per-invocation state seen by hooks.
	Request = pipeline.Request[Event]
	// Hook is a single-phase hook over Event.
	Hook = pipeline.Hook[Event]
)

// Route names the route an event was delivered to, "METHOD /path".
func Route(ev Event) string {
	if ev.RouteKey != "" && ev.RouteKey != "$default" {
		return ev.RouteKey
	}
	return ev.RequestContext.HTTP.Method + " " + ev.RawPath
}
