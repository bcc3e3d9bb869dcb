package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

const (
	ansiCodeReset     = "\033[0m"
	ansiCodeRed       = "\033[31m"
	ansiCodeGreen     = "\033[32m"
	ansiCodeYellow    = "\033[33m"
	ansiCodeCyan      = "\033[36m"
	ansiCodeGray      = "\033[90m"
	ansiCodeUnderline = "\033[4m"
)

//nolint:gochecknoglobals
var ansiCodeMap = map[slog.Level]string{
	slog.LevelDebug: ansiCodeCyan,
	slog.LevelInfo:  ansiCodeGreen,
	slog.LevelWarn:  ansiCodeYellow,
	slog.LevelError: ansiCodeRed,
}

// ConsoleHandler implements slog.Handler with human-readable output suitable
// for development environments.
type ConsoleHandler struct {
	// Output is the destination for log output (typically os.Stdout or os.Stderr)
	Output io.Writer
	// Level is the minimum level for log records to be processed
	Level slog.Leveler
	// PkgLevels maps logger names (and their dotted parents) to minimum log levels
	PkgLevels map[string]slog.Level
	// Color enables ANSI escape codes
	Color bool

	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	attrs = append(h.attrs, attrs...)

	if !h.pkgEnabled(loggerName(attrs), r.Level) {
		return nil
	}

	logMessage := h.paint(ansiCodeGray, r.Time.Format("15:04:05.000000"))
	logMessage += " " + h.paint(ansiCodeMap[r.Level], "["+r.Level.String()+"]")
	logMessage += " " + r.Message

	var prefix string

	if len(h.groups) > 0 {
		prefix = strings.Join(h.groups, ".") + "."
	}

	if len(attrs) > 0 {
		logMessage += " " + h.paint(ansiCodeGray, "|")
		logMessage += h.renderAttrs(prefix, attrs)
	}

	if r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		fn := strings.Split(f.Function, string(os.PathSeparator))

		logMessage += "\n-> " + h.paint(ansiCodeGray, fn[len(fn)-1]+"()")
		logMessage += " in " + h.paint(ansiCodeUnderline, f.File+":"+strconv.Itoa(f.Line))
	}

	fmt.Fprintln(h.Output, logMessage)

	return nil
}

// pkgEnabled walks the dotted logger name from most to least specific and
// applies the first matching package level. The empty key is the catch-all.
func (h *ConsoleHandler) pkgEnabled(name string, level slog.Level) bool {
	parts := strings.Split(name, ".")

	for i := len(parts); i >= 0; i-- {
		threshold, ok := h.PkgLevels[strings.Join(parts[:i], ".")]
		if ok {
			return level >= threshold
		}
	}

	return true
}

func loggerName(attrs []slog.Attr) string {
	for _, attr := range attrs {
		if attr.Key == loggerKey {
			return attr.Value.String()
		}
	}

	return ""
}

func (h *ConsoleHandler) paint(code, s string) string {
	if !h.Color || code == "" {
		return s
	}

	return code + s + ansiCodeReset
}

func (h *ConsoleHandler) renderAttrs(prefix string, attrs []slog.Attr) (out string) {
	for _, attr := range attrs {
		if attr.Value.Kind() == slog.KindGroup {
			out += h.renderAttrs(prefix+attr.Key+".", attr.Value.Group())

			continue
		}

		out += " " + prefix + attr.Key
		out += "=" + h.paint(ansiCodeGray, attr.Value.String())
	}

	return
}

// WithAttrs implements slog.Handler.WithAttrs.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) Handler {
	return &ConsoleHandler{
		Output:    h.Output,
		Level:     h.Level,
		PkgLevels: h.PkgLevels,
		Color:     h.Color,
		attrs:     append(append([]slog.Attr{}, h.attrs...), attrs...),
		groups:    h.groups,
	}
}

// WithGroup implements slog.Handler.WithGroup.
func (h *ConsoleHandler) WithGroup(name string) Handler {
	return &ConsoleHandler{
		Output:    h.Output,
		Level:     h.Level,
		PkgLevels: h.PkgLevels,
		Color:     h.Color,
		attrs:     h.attrs,
		groups:    append(append([]string{}, h.groups...), name),
	}
}

// Enabled implements slog.Handler.Enabled.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.Level.Level() <= level
}
