package handler

import (
	"context"
	"errors"
	"strconv"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/middleware"
	"lambda-go-template/internal/pipeline"
	"lambda-go-template/internal/shared"
)

// Failure always fails, in the way selected by the "type" query parameter:
//
//	?type=<status>  the catalogue error for that status, e.g. 404 or 429
//	?type=_0        input validation error (400)
//	?type=_1        plain runtime error (500, generic body)
//	?type=_2        runtime type assertion panic (500, generic body)
//	otherwise       400 "Empty error type in query"
func Failure(d Deps) *pipeline.Pipeline[middleware.Event] {
	return pipeline.New(fail).
		OnError(failureHooks(d)...).
		Build()
}

func fail(_ context.Context, req *middleware.Request) (any, error) {
	kind := req.Event.QueryStringParameters["type"]

	if code, err := strconv.Atoi(kind); err == nil {
		if e, ok := httperr.FromStatus(code); ok {
			return nil, e
		}
	}

	switch kind {
	case "_0":
		return nil, shared.MarkKind(errors.New("input validation error"), shared.KindValidation)
	case "_1":
		return nil, errors.New("Runtime Error")
	case "_2":
		var arg any = kind
		return arg.(int), nil
	}

	return nil, httperr.BadRequest(httperr.WithMessage("Empty error type in query"))
}
