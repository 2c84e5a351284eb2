package handler

import (
	"context"
	"fmt"

	"lambda-go-template/internal/middleware"
	"lambda-go-template/internal/pipeline"
)

// HelloBody is the accepted request body.
type HelloBody struct {
	Name string `json:"name" validate:"omitempty,max=128"`
}

// Hello greets the caller by name:
//
//	POST {}                  200 "Hello Anonymous!"
//	POST {"name":"John Doe"} 200 "Hello John Doe!"
//	POST {"name":1}          400
//	POST (no body)           400
func Hello(d Deps) *pipeline.Pipeline[middleware.Event] {
	return pipeline.New(hello).
		Use(middleware.InputOutputLogger(d.Log)).
		Before(middleware.JSONBody[HelloBody](), middleware.Validate()).
		OnError(failureHooks(d)...).
		Build()
}

func hello(_ context.Context, req *middleware.Request) (any, error) {
	body, _ := req.Body.(*HelloBody)
	if body == nil || body.Name == "" {
		return "Hello Anonymous!", nil
	}
	return fmt.Sprintf("Hello %s!", body.Name), nil
}
