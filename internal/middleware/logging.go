package middleware

import (
	"context"
	"log/slog"
	"time"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/pipeline"
)

const startedAtKey = "middleware.started_at"

// InputOutputLogger logs the incoming event before the handler and the
// outgoing response after it.
func InputOutputLogger(log *slog.Logger) pipeline.Middleware[Event] {
	return pipeline.Middleware[Event]{
		Before: func(ctx context.Context, req *Request) error {
			req.Set(startedAtKey, time.Now())
			log.InfoContext(ctx, "event received",
				slog.String("route", Route(req.Event)),
				slog.String("request_id", req.Event.RequestContext.RequestID),
			)
			log.DebugContext(ctx, "event body",
				slog.String("body", req.Event.Body),
				slog.Any("query", req.Event.QueryStringParameters),
			)
			return nil
		},
		After: func(ctx context.Context, req *Request) error {
			log.InfoContext(ctx, "response",
				slog.String("route", Route(req.Event)),
				slog.Int("status", req.Status),
				slog.Any("response", req.Response),
				slog.Duration("elapsed", elapsed(req)),
			)
			return nil
		},
	}
}

// ErrorLogger logs the raw failure. Unknown failures are logged at error
// level with the panic stack when there is one; classified ones at warn.
func ErrorLogger(log *slog.Logger) Hook {
	return func(ctx context.Context, req *Request) error {
		attrs := []any{
			slog.String("route", Route(req.Event)),
			slog.String("request_id", req.Event.RequestContext.RequestID),
			slog.Any("err", req.Err),
			slog.Duration("elapsed", elapsed(req)),
		}
		if !httperr.IsUnknown(req.Err) {
			log.WarnContext(ctx, "request failed",
				append(attrs, slog.Int("status", httperr.Classify(req.Err).StatusCode()))...)
			return nil
		}
		if perr, ok := asPanic(req.Err); ok {
			attrs = append(attrs, slog.String("stack", string(perr.Stack)))
		}
		log.ErrorContext(ctx, "unhandled failure", attrs...)
		return nil
	}
}

func elapsed(req *Request) time.Duration {
	v, ok := req.Get(startedAtKey)
	if !ok {
		return 0
	}
	started, _ := v.(time.Time)
	return time.Since(started)
}
