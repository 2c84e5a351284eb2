// Package httpserver serves the functions over plain HTTP for local runs and
// container deployments. Requests are translated into the same API Gateway
// events the Lambda runtime delivers, so both paths share one pipeline.
package httpserver

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/middleware"
	"lambda-go-template/internal/response"
)

// maxBodyBytes matches the Lambda synchronous invocation payload limit.
const maxBodyBytes = 6 << 20

// Dispatcher answers one event with one envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev middleware.Event) response.Envelope
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewEngine builds the gin engine. Every path except /healthz is handed to d.
// health may be nil.
func NewEngine(d Dispatcher, health Pinger, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				log.WarnContext(ctx, "health check failed", slog.Any("err", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		ev, err := ToEvent(c.Request)
		if err != nil {
			writeError(c, httperr.BadRequest(httperr.WithMessage("Unreadable request body")))
			return
		}
		write(c, d.Dispatch(c.Request.Context(), ev))
	})

	return r
}

func write(c *gin.Context, env response.Envelope) {
	if env.Body == "" {
		c.Status(env.StatusCode)
		return
	}
	c.Data(env.StatusCode, "application/json", []byte(env.Body))
}

// ToEvent translates an HTTP request into an API Gateway v2 event. Repeated
// headers and query parameters are joined with commas, as API Gateway does.
// Bodies that are not valid UTF-8 are base64 encoded.
func ToEvent(r *http.Request) (middleware.Event, error) {
	var raw []byte
	if r.Body != nil {
		var err error
		raw, err = io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		if err != nil {
			return middleware.Event{}, err
		}
	}

	ev := middleware.Event{
		Version:        "2.0",
		RouteKey:       "$default",
		RawPath:        r.URL.Path,
		RawQueryString: r.URL.RawQuery,
		Headers:        joinValues(r.Header, strings.ToLower),
	}
	if q := r.URL.Query(); len(q) > 0 {
		ev.QueryStringParameters = joinValues(q, nil)
	}
	if c := r.Cookies(); len(c) > 0 {
		for _, ck := range c {
			ev.Cookies = append(ev.Cookies, ck.String())
		}
	}

	if utf8.Valid(raw) {
		ev.Body = string(raw)
	} else {
		ev.Body = base64.StdEncoding.EncodeToString(raw)
		ev.IsBase64Encoded = true
	}

	now := time.Now()
	ev.RequestContext.RequestID = uuid.NewString()
	ev.RequestContext.Stage = "$default"
	ev.RequestContext.Time = now.UTC().Format("02/Jan/2006:15:04:05 -0700")
	ev.RequestContext.TimeEpoch = now.UnixMilli()
	ev.RequestContext.HTTP.Method = r.Method
	ev.RequestContext.HTTP.Path = r.URL.Path
	ev.RequestContext.HTTP.Protocol = r.Proto
	ev.RequestContext.HTTP.SourceIP = sourceIP(r)
	ev.RequestContext.HTTP.UserAgent = r.UserAgent()

	return ev, nil
}

func joinValues(in map[string][]string, key func(string) string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if key != nil {
			k = key(k)
		}
		out[k] = strings.Join(v, ",")
	}
	return out
}

func sourceIP(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i > 0 {
		host = host[:i]
	}
	return strings.Trim(host, "[]")
}

// Run serves h on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
