package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/journal"
	"lambda-go-template/internal/response"
)

const (
	defaultFailureLimit = 20
	maxFailureLimit     = 200
)

// FailureLister reads the newest journal entries.
type FailureLister interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// MountFailures serves GET /debug/failures?limit=N, newest first. Entries
// carry stacks and raw messages, so it is only mounted outside production.
func MountFailures(r gin.IRouter, src FailureLister, log *slog.Logger) {
	r.GET("/debug/failures", func(c *gin.Context) {
		limit := defaultFailureLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				writeError(c, httperr.BadRequest(httperr.WithMessage("limit must be a positive integer")))
				return
			}
			limit = min(n, maxFailureLimit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		entries, err := src.Recent(ctx, limit)
		if err != nil {
			log.ErrorContext(ctx, "read journal failed", slog.Any("err", err))
			writeError(c, httperr.ServiceUnavailable())
			return
		}
		if entries == nil {
			entries = []journal.Entry{}
		}

		env, err := response.Success(http.StatusOK, entries)
		if err != nil {
			env = response.Fallback()
		}
		write(c, env)
	})
}

func writeError(c *gin.Context, e *httperr.Error) {
	env, err := response.Error(e)
	if err != nil {
		env = response.Fallback()
	}
	write(c, env)
}
