// Package lambda adapts the router to the AWS Lambda runtime for API Gateway
// HTTP API (payload v2) triggers.
package lambda

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"lambda-go-template/internal/middleware"
	"lambda-go-template/internal/response"
)

// Dispatcher answers one event with one envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev middleware.Event) response.Envelope
}

// HandlerFunc is the signature registered with the Lambda runtime.
type HandlerFunc func(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// Handler wraps d for the Lambda runtime. It never returns an error: every
// failure has already been turned into an envelope.
func Handler(d Dispatcher, log *slog.Logger) HandlerFunc {
	return func(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		l := log
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			if ev.RequestContext.RequestID == "" {
				ev.RequestContext.RequestID = lc.AwsRequestID
			}
			l = l.With(slog.String("aws_request_id", lc.AwsRequestID))
		}
		env := d.Dispatch(ctx, ev)
		l.DebugContext(ctx, "invocation done", slog.Int("status", env.StatusCode))
		return ToResponse(env), nil
	}
}

// ToResponse converts an envelope into the API Gateway response shape.
func ToResponse(env response.Envelope) events.APIGatewayV2HTTPResponse {
	resp := events.APIGatewayV2HTTPResponse{
		StatusCode: env.StatusCode,
		Body:       env.Body,
	}
	if env.Body != "" {
		resp.Headers = map[string]string{"Content-Type": "application/json"}
	}
	return resp
}

// Start hands control to the Lambda runtime. It does not return, so
// deferred cleanup in the caller never runs. onShutdown is called instead
// when the runtime delivers SIGTERM, which it does once an extension is
// registered.
func Start(d Dispatcher, log *slog.Logger, onShutdown ...func()) {
	awslambda.StartWithOptions(Handler(d, log), awslambda.WithEnableSIGTERM(onShutdown...))
}
