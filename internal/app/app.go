package app

import (
	"context"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"lambda-go-template/internal/adapter/httpserver"
	"lambda-go-template/internal/adapter/lambda"
	"lambda-go-template/internal/adapter/scheduler"
	"lambda-go-template/internal/config"
	"lambda-go-template/internal/handler"
	"lambda-go-template/internal/journal"
	"lambda-go-template/internal/platform/logger"
)

// App wires application components.
type App struct {
	cfg config.Config
	log *slog.Logger
}

// New creates a new App instance and loads configuration.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "lambda-go-template",
	})
	return &App{cfg: cfg, log: log}, nil
}

// Run serves the functions until the process is told to stop. In the lambda
// runtime it hands control to the Lambda runtime loop and never returns.
func (a *App) Run() error {
	defer logger.Close(a.log)
	a.log.Info("starting", slog.String("runtime", a.cfg.Runtime))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := journal.Open(ctx, journal.Config{Driver: a.cfg.Journal.Driver, DSN: a.cfg.Journal.DSN})
	if err != nil {
		return err
	}
	defer a.shutdown(store)()

	router := handler.NewRouter(handler.Deps{Log: a.log, Journal: store})

	if a.cfg.Runtime == config.RuntimeLambda {
		lambda.Start(router, a.log, a.shutdown(store))
		return nil
	}
	return a.serveHTTP(ctx, router, store)
}

func (a *App) serveHTTP(ctx context.Context, router *handler.Router, store journal.Store) error {
	if a.cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if a.cfg.Journal.Driver != journal.DriverNone && a.cfg.Journal.Retention > 0 {
		sched := scheduler.NewWithContext(ctx, scheduler.Config{Logger: a.log})
		_, err := sched.AddCronJobWithOptions(a.cfg.Journal.PruneSchedule,
			scheduler.PruneJob(store, a.cfg.Journal.Retention, a.log),
			scheduler.JobOptions{Name: "journal-prune", Timeout: time.Minute, OverlapPolicy: scheduler.SkipIfRunning},
		)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = sched.StopContext(stopCtx)
		}()
	}

	engine := httpserver.NewEngine(router, store, a.log)
	if a.cfg.Env == "dev" {
		httpserver.MountFailures(engine, store, a.log)
	}
	return httpserver.Run(ctx, a.cfg.HTTP.Addr, engine, a.log)
}

// shutdown releases the journal and the log file. The lambda runtime loop
// never returns, so Run's deferred calls are not reached there and this runs
// from the SIGTERM callback instead. Only the first call does anything.
func (a *App) shutdown(store journal.Store) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			a.log.Info("shutting down")
			if err := store.Close(); err != nil {
				a.log.Error("close journal", slog.Any("err", err))
			}
			_ = logger.Close(a.log)
		})
	}
}
