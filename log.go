package coro

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cwrcampbell/coro/internal/prettylog"
)

var (
	logLevelFlag = flag.String("coro-log-level", "ERROR", "coro scheduler slog log level")
	logFormat    = logFormatKind("pretty")
)

type logFormatKind string

const (
	logFormatRaw      logFormatKind = "raw"
	logFormatIndented logFormatKind = "indented"
	logFormatPretty   logFormatKind = "pretty"
)

func init() {
	flag.Func("coro-log-format", "raw|indented|pretty", func(s string) error {
		k := logFormatKind(s)
		if k != logFormatRaw && k != logFormatIndented && k != logFormatPretty {
			return fmt.Errorf("bad log format %q", s)
		}
		logFormat = k
		return nil
	})
}

// wrapHandler tags every log record with the currently running task's id and
// the ring's switch counter.
type wrapHandler struct {
	inner slog.Handler
	r     *ring
}

func (w wrapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return w.inner.Enabled(ctx, level)
}

func (w wrapHandler) Handle(ctx context.Context, r slog.Record) error {
	if w.r != nil {
		r.AddAttrs(slog.Int64("turn", w.r.turn))
		if w.r.current != nil {
			r.AddAttrs(slog.Int("task", w.r.current.id))
		}
	}
	return w.inner.Handle(ctx, r)
}

func (w wrapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return wrapHandler{inner: w.inner.WithAttrs(attrs), r: w.r}
}

func (w wrapHandler) WithGroup(name string) slog.Handler {
	return wrapHandler{inner: w.inner.WithGroup(name), r: w.r}
}

// indentedWriter re-encodes each complete JSON log line with two-space
// indentation. Lines that fail to parse as JSON (a partial write, or
// something writing ordinary text to the same stream) pass through
// unchanged.
type indentedWriter struct {
	out io.Writer
}

func (w *indentedWriter) Write(p []byte) (n int, err error) {
	if len(p) > 0 && p[len(p)-1] == '\n' {
		var v any
		if err := json.Unmarshal(p, &v); err == nil {
			enc := json.NewEncoder(w.out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(v); err == nil {
				return len(p), nil
			}
		}
	}
	return w.out.Write(p)
}

func consoleWriter(out io.Writer) io.Writer {
	switch logFormat {
	case logFormatRaw:
		return out
	case logFormatIndented:
		return &indentedWriter{out: out}
	default:
		return prettylog.NewWriter(out)
	}
}

func newLogger(r *ring) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevelFlag)); err != nil {
		level = slog.LevelError
	}
	handler := slog.NewJSONHandler(consoleWriter(os.Stderr), &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	return slog.New(wrapHandler{inner: handler, r: r})
}
