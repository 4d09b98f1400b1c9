package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

// InitLogger installs a process-wide slog logger writing to stdout
func InitLogger(cfg Config) *slog.Logger {
	return InitLoggerWithWriter(cfg, os.Stdout)
}

// InitLoggerWithWriter installs a process-wide slog logger writing to w and
// returns it. Every record carries the config's base attributes.
func InitLoggerWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	handler = handler.WithAttrs(cfg.BaseAttributes())

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// GenerateRequestID creates a new UUID for tracing requests.
func GenerateRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a new context containing the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey)
	if v == nil {
		return "", false
	}
	if id, ok := v.(string); ok {
		return id, true
	}
	return "", false
}

// FromContext returns a logger that includes the request_id attribute when present.
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := RequestIDFromContext(ctx); ok {
		return slog.Default().With(AttrKeyRequestID, id)
	}
	return slog.Default()
}

// SlogAdapter lets printf-style engine diagnostics flow into slog.
type SlogAdapter struct {
	Logger *slog.Logger
}

// NewSlogAdapter tags every record with the component name
func NewSlogAdapter(l *slog.Logger, component string) *SlogAdapter {
	if l == nil {
		l = slog.Default()
	}
	return &SlogAdapter{Logger: l.With(AttrKeyComponent, component)}
}

func (a *SlogAdapter) Debugf(format string, args ...any) {
	a.Logger.Debug(fmt.Sprintf(format, args...))
}

func (a *SlogAdapter) Infof(format string, args ...any) {
	a.Logger.Info(fmt.Sprintf(format, args...))
}

func (a *SlogAdapter) Warnf(format string, args ...any) {
	a.Logger.Warn(fmt.Sprintf(format, args...))
}

func (a *SlogAdapter) Errorf(format string, args ...any) {
	a.Logger.Error(fmt.Sprintf(format, args...))
}
