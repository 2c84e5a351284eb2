// Package handler defines the demo functions and the hooks assembled around
// them.
package handler

import (
	"log/slog"

	"lambda-go-template/internal/journal"
	"lambda-go-template/internal/middleware"
	"lambda-go-template/internal/pipeline"
)

// Deps are the collaborators shared by every function.
type Deps struct {
	Log     *slog.Logger
	Journal journal.Recorder
}

// failureHooks is the onError chain every function ends with. The journal
// must see the raw failure, so it runs before classification.
func failureHooks(d Deps) []middleware.Hook {
	return []middleware.Hook{
		middleware.ErrorLogger(d.Log),
		middleware.Journal(d.Journal, d.Log),
		pipeline.ClassifyError[middleware.Event],
		pipeline.ErrorResponse[middleware.Event],
	}
}
