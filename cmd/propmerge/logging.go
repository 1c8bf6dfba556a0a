package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"git.sr.ht/~spc/go-log"
)

// goLogHandler is a slog.Handler that writes records through go-log, so
// library packages can take a *slog.Logger while the command keeps a single
// log output and format.
type goLogHandler struct {
	level  slog.Level
	prefix string
	attrs  []slog.Attr
	emit   func(slog.Level, string)
}

func newGoLogHandler(level slog.Level) *goLogHandler {
	log.SetLevel(goLogLevel(level))
	return &goLogHandler{level: level, emit: emitGoLog}
}

func emitGoLog(level slog.Level, msg string) {
	switch {
	case level >= slog.LevelError:
		log.Errorf("%s", msg)
	case level >= slog.LevelWarn:
		log.Warnf("%s", msg)
	case level >= slog.LevelInfo:
		log.Infof("%s", msg)
	default:
		log.Debugf("%s", msg)
	}
}

func (h *goLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *goLogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	h.emit(r.Level, b.String())
	return nil
}

func (h *goLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

func (h *goLogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, groupPrefix, ga)
		}
		return
	}

	value := a.Value.String()
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}
	fmt.Fprintf(b, " %s%s=%s", prefix, a.Key, value)
}

func goLogLevel(level slog.Level) log.Level {
	switch {
	case level >= slog.LevelError:
		return log.LevelError
	case level >= slog.LevelWarn:
		return log.LevelWarn
	case level >= slog.LevelInfo:
		return log.LevelInfo
	default:
		return log.LevelDebug
	}
}

// parseLogLevel accepts go-log level names and returns the matching slog level.
func parseLogLevel(s string) (slog.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return slog.LevelInfo, err
	}
	switch level {
	case log.LevelError:
		return slog.LevelError, nil
	case log.LevelWarn:
		return slog.LevelWarn, nil
	case log.LevelInfo:
		return slog.LevelInfo, nil
	default:
		return slog.LevelDebug, nil
	}
}
