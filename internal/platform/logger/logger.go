// Package logger builds the process-wide slog logger: a console handler
// (tint in dev, JSON otherwise so CloudWatch can index fields), an optional
// rotated JSON file, and redaction of sensitive attributes on every output.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls what New builds. Empty levels fall back to info on the
// console and debug in the file.
type Options struct {
	Env          string
	ConsoleLevel string
	FileLevel    string
	File         string
	App          string
	// Console replaces os.Stdout, mostly for tests.
	Console io.Writer
}

// files keeps the rotating writer of each logger so Close can reach it.
var files sync.Map

func New(o Options) *slog.Logger {
	out := o.Console
	if out == nil {
		out = os.Stdout
	}

	h := redact(consoleHandler(o.Env, out, parseLevel(o.ConsoleLevel, slog.LevelInfo)))

	var rotator *lumberjack.Logger
	if o.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    5, // MB
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		fh := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: parseLevel(o.FileLevel, slog.LevelDebug)})
		h = NewMultiHandler(h, redact(fh))
	}

	l := slog.New(h).With("app", o.App, "env", o.Env)
	if rotator != nil {
		files.Store(l, rotator)
	}
	return l
}

func consoleHandler(env string, w io.Writer, lvl slog.Level) slog.Handler {
	if env == "dev" {
		return tint.NewHandler(w, &tint.Options{Level: lvl, TimeFormat: time.Kitchen})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
}

// Close flushes and closes the log file of a logger returned by New. It is
// safe to call more than once.
func Close(l *slog.Logger) error {
	v, ok := files.LoadAndDelete(l)
	if !ok {
		return nil
	}
	return v.(*lumberjack.Logger).Close()
}

// parseLevel accepts slog level names in any case and returns def for
// anything else.
func parseLevel(s string, def slog.Level) slog.Level {
	if s == "" {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return def
	}
	return lvl
}
