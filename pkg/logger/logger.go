// Package logger provides a structured, levelled logger built on log/slog.
//
// Output goes to stderr so it never mixes with command output on stdout.
// Setup adds the optional sinks configured for the process:
//
//	LOG_FILE=./logs/foodexplorer.log      rotating file (lumberjack)
//	LOG_MONGO_URI=mongodb://localhost     MongoDB collection foodexplorer.logs
//
// WithCtx tags the logger with the request ID of the current API call:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order submitted", "dishes", 3)
//	// → time=... level=INFO msg="order submitted" request_id=0b9c... dishes=3
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/shashiranjanraj/foodexplorer/config"
	"github.com/shashiranjanraj/foodexplorer/pkg/reqid"
)

var L *slog.Logger

func init() {
	L = slog.New(consoleHandler(os.Stderr))
	slog.SetDefault(L)
}

func handlerOptions() *slog.HandlerOptions {
	switch config.AppEnv() {
	case "production", "prod":
		return &slog.HandlerOptions{Level: slog.LevelInfo}
	case "debug":
		return &slog.HandlerOptions{Level: slog.LevelDebug}
	default:
		return &slog.HandlerOptions{Level: slog.LevelWarn}
	}
}

func consoleHandler(w io.Writer) slog.Handler {
	opts := handlerOptions()
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(w, opts) // structured JSON for log aggregators
	default:
		return slog.NewTextHandler(w, opts) // human-readable for dev
	}
}

// Setup rebuilds L from configuration and returns a closer that flushes the
// optional sinks. Safe to call once per process, typically from the kernel.
func Setup() (io.Closer, error) {
	handlers := []slog.Handler{consoleHandler(os.Stderr)}
	var closers closerList

	if path := config.LogFile(); path != "" {
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
		}
		handlers = append(handlers, slog.NewJSONHandler(rot, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closers = append(closers, rot)
	}

	if uri := config.LogMongoURI(); uri != "" {
		mh, err := NewMongoHandler(uri, "foodexplorer", "logs")
		if err != nil {
			// The console keeps working; a missing log sink is not fatal.
			L.Warn("logger: mongo sink disabled", "error", err)
		} else {
			handlers = append(handlers, mh)
			closers = append(closers, mh)
		}
	}

	if len(handlers) == 1 {
		L = slog.New(handlers[0])
	} else {
		L = slog.New(NewMultiHandler(handlers...))
	}
	slog.SetDefault(L)

	return closers, nil
}

type closerList []io.Closer

func (c closerList) Close() error {
	var errs []error
	for _, cl := range c {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns a *slog.Logger for ctx. An injected logger wins; otherwise
// the base logger is tagged with the request_id found in ctx, if any.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	if id := reqid.FromCtx(ctx); id != "" {
		return L.With("request_id", id)
	}
	return L
}

// InjectLogger stores a pre-tagged *slog.Logger into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
