package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/andyballingall/swagger-mock-validator/internal/fs"
)

const (
	LogFile   = ".smv.log"
	LogEnvVar = "SMV_LOG_FILE"
)

// setupLogger configures a logger that writes structured logs to a file
// and clean, human-readable logs to the console.
// The file is taken from LogEnvVar, or LogFile in the working directory.
// When the file cannot be opened the console logger is still returned,
// together with the error.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, env fs.EnvProvider,
	useColour bool,
) (*slog.Logger, io.Closer, error) {
	logPath := env.Get(LogEnvVar)
	if logPath == "" {
		logPath = LogFile
	}

	console := newConsoleHandler(stderr, logLevel, useColour)

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, err
	}

	// The file always gets full debug detail.
	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(&multiHandler{handlers: []slog.Handler{file, console}}), f, nil
}

// multiHandler fans each record out to every handler enabled for its level.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *multiHandler) each(f func(slog.Handler) slog.Handler) *multiHandler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = f(h)
	}
	return &multiHandler{handlers: handlers}
}

// consoleHandler writes one plain line per record. Attributes are only shown
// at debug level, except errors which are always appended to the message.
type consoleHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  *slog.LevelVar
	colour bool
	group  string
	attrs  []slog.Attr
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar, colour bool) *consoleHandler {
	return &consoleHandler{w: w, mu: &sync.Mutex{}, level: level, colour: colour}
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var line bytes.Buffer

	switch {
	case record.Level >= slog.LevelError:
		line.WriteString(c.paint("\033[31m", "Error: "))
	case record.Level >= slog.LevelWarn:
		line.WriteString(c.paint("\033[33m", "Warning: "))
	}
	line.WriteString(record.Message)

	for _, a := range c.attrs {
		c.appendAttr(&line, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.appendAttr(&line, c.group, a)
		return true
	})
	line.WriteByte('\n')

	// A single write per record keeps lines from concurrent validations whole.
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.w.Write(line.Bytes())
	return err
}

func (c *consoleHandler) paint(code, s string) string {
	if !c.colour {
		return s
	}
	return code + s + "\033[0m"
}

func (c *consoleHandler) appendAttr(line *bytes.Buffer, group string, a slog.Attr) {
	if a.Key == "error" || a.Key == "err" {
		fmt.Fprintf(line, ": %v", a.Value)
		return
	}
	if c.level.Level() > slog.LevelDebug {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	fmt.Fprintf(line, " %s=%v", key, a.Value)
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *c
	clone.attrs = make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, c.attrs...)
	for _, a := range attrs {
		if c.group != "" && a.Key != "error" && a.Key != "err" {
			a.Key = c.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (c *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	clone := *c
	if c.group != "" {
		name = c.group + "." + name
	}
	clone.group = name
	return &clone
}
