// Package logger provides the colored slog handler used by the CLI and server.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// persistMarkers highlight store writes in green.
var persistMarkers = []string{"persist", "Persist"}

// ColorHandler is a slog.Handler that writes level-colored text lines.
type ColorHandler struct {
	out    io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	color  bool
	attrs  []groupedAttr
	groups []string
}

type groupedAttr struct {
	prefix string
	attr   slog.Attr
}

// Options configures a ColorHandler.
type Options struct {
	Level slog.Leveler
	// NoColor disables ANSI escapes. Colors are also disabled when out is not a terminal.
	NoColor bool
}

// NewColorHandler returns a handler writing to out.
func NewColorHandler(out io.Writer, opts *Options) *ColorHandler {
	if opts == nil {
		opts = &Options{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &ColorHandler{
		out:   out,
		mu:    &sync.Mutex{},
		level: level,
		color: !opts.NoColor && isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewDefaultLogger returns a colored logger on stderr at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(NewColorHandler(os.Stderr, &Options{Level: level}))
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Enabled implements slog.Handler
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler
func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format(time.DateTime))
		b.WriteByte(' ')
	}

	levelColor := h.levelColor(r)
	b.WriteString(h.paint(levelColor, fmt.Sprintf("%-5s", r.Level.String())))
	b.WriteByte(' ')
	b.WriteString(h.paint(levelColor, r.Message))

	for _, ga := range h.attrs {
		writeAttr(&b, ga.prefix, ga.attr, h)
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, prefix, a, h)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr, h *ColorHandler) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga, h)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(h.paint(colorGray, key+"="))
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteString(val)
}

func (h *ColorHandler) levelColor(r slog.Record) string {
	switch {
	case r.Level >= slog.LevelError:
		return colorRed
	case r.Level >= slog.LevelWarn:
		return colorYellow
	}
	for _, marker := range persistMarkers {
		if strings.Contains(r.Message, marker) {
			return colorGreen
		}
	}
	return ""
}

func (h *ColorHandler) paint(color, s string) string {
	if !h.color || color == "" {
		return s
	}
	return color + s + colorReset
}

// WithAttrs implements slog.Handler
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	prefix := strings.Join(h.groups, ".")
	clone.attrs = append([]groupedAttr{}, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, groupedAttr{prefix: prefix, attr: a})
	}
	return &clone
}

// WithGroup implements slog.Handler
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}
