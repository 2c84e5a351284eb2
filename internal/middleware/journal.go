package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/journal"
)

const recordTimeout = 2 * time.Second

// Journal forwards failures the classifier does not recognise to rec. It must
// run before pipeline.ClassifyError, which replaces the raw failure. Recording
// errors are logged and never change the response.
func Journal(rec journal.Recorder, log *slog.Logger) Hook {
	return func(ctx context.Context, req *Request) error {
		if rec == nil || !httperr.IsUnknown(req.Err) {
			return nil
		}

		// the invocation may already be canceled; the entry is still wanted
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()

		entry := journal.NewEntry(req.Event.RequestContext.RequestID, Route(req.Event), req.Err)
		if err := rec.Record(ctx, entry); err != nil {
			log.WarnContext(ctx, "journal record failed",
				slog.String("entry_id", entry.ID.String()),
				slog.Any("err", err),
			)
		}
		return nil
	}
}

func asPanic(err error) (*httperr.PanicError, bool) {
	var perr *httperr.PanicError
	ok := errors.As(err, &perr)
	return perr, ok
}
