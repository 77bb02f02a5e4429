// Package logger wraps log/slog with the event helpers the service emits.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type contextKey string

// RequestIDKey is the context key httpkit.RequestID stores the request ID under.
const RequestIDKey contextKey = "request_id"

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New logs to stdout.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter picks a debug-level text handler in development and JSON at
// info level everywhere else.
func NewWithWriter(env string, w io.Writer) *Logger {
	if strings.EqualFold(env, "development") {
		return &Logger{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// Discard drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithContext adds the request ID from ctx, when there is one.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return &Logger{Logger: l.With(slog.String("request_id", id))}
	}
	return l
}

func (l *Logger) HTTPRequest(method, path string, status int, latency time.Duration, clientIP string) {
	l.LogAttrs(context.Background(), slog.LevelInfo, "http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", millis(latency)),
		slog.String("client_ip", clientIP),
	)
}

func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.LogAttrs(context.Background(), slog.LevelError, "http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Any("error", err),
		slog.String("client_ip", clientIP),
	)
}

func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.LogAttrs(context.Background(), slog.LevelWarn, "rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}

// RankingPass records one prioritization pass over a lead snapshot.
func (l *Logger) RankingPass(op string, leads int, elapsed time.Duration) {
	l.LogAttrs(context.Background(), slog.LevelDebug, "ranking_pass",
		slog.String("op", op),
		slog.Int("leads", leads),
		slog.Float64("elapsed_ms", millis(elapsed)),
	)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
