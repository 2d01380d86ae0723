// Package slogcustom is a compact, coloured slog handler for terminals.
package slogcustom

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type CustomHandler struct {
	mu    *sync.Mutex
	l     *log.Logger
	level slog.Leveler
	attrs []slog.Attr
	group string
}

func NewCustomHandler(out io.Writer, level slog.Leveler) *CustomHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		mu:    &sync.Mutex{},
		l:     log.New(out, "", 0),
		level: level,
	}
}

// New returns a logger writing through a CustomHandler.
func New(out io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(NewCustomHandler(out, level))
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown input
// falls back to info.
func ParseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.HiBlueString(level)
	default:
		level = color.MagentaString(level)
	}

	var attrs strings.Builder
	for _, a := range c.attrs {
		writeAttr(&attrs, c.group, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&attrs, c.group, a)
		return true
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.l.Println(
		r.Time.Format("15:04:05.000"),
		level,
		r.Message,
		strings.TrimSpace(attrs.String()),
	)
	return nil
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	b.WriteString(color.GreenString(key))
	b.WriteString("=")
	b.WriteString(fmt.Sprint(a.Value.Resolve().Any()))
	b.WriteString(" ")
}

func (c *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *c
	clone.attrs = append(append([]slog.Attr(nil), c.attrs...), attrs...)
	return &clone
}

func (c *CustomHandler) WithGroup(name string) slog.Handler {
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

func (c *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}
