package log

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Форматы вывода логов.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel переводит уровень из конфигурации в slog.Level.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// isTerminal подменяется в тестах.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// New создает логгер с маскировкой. В режиме auto для терминала выбирается
// текстовый формат, иначе JSON.
func New(out io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if format == FormatAuto || format == "" {
		format = FormatJSON
		if isTerminal(out) {
			format = FormatText
		}
	}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}
	return NewMaskedLogger(handler)
}
