package log

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// MaskerHandler - обертка для slog.Handler, которая скрывает в логах
// чувствительные данные из дампа: токены ботов и номера телефонов.
type MaskerHandler struct {
	handler slog.Handler
}

// NewMaskerHandler создает новый обработчик с маскировкой.
func NewMaskerHandler(handler slog.Handler) *MaskerHandler {
	return &MaskerHandler{
		handler: handler,
	}
}

var (
	// токены в формате botID:token
	telegramTokenRegex = regexp.MustCompile(`(\bbot\d+:[A-Za-z0-9_-]{35,})`)
	// международный номер: плюс, затем цифры вперемешку с пробелами и дефисами
	phoneNumberRegex = regexp.MustCompile(`\+\d[\d -]{5,18}\d`)
)

const visiblePhoneDigits = 2

// maskSensitive заменяет найденные токены и номера на маску.
func maskSensitive(text string) string {
	text = telegramTokenRegex.ReplaceAllString(text, "bot***:***masked-token***")
	return phoneNumberRegex.ReplaceAllStringFunc(text, maskPhone)
}

// maskPhone оставляет видимыми только последние цифры номера.
func maskPhone(phone string) string {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	var b strings.Builder
	b.Grow(len(phone))
	seen := 0
	for _, r := range phone {
		if r < '0' || r > '9' {
			b.WriteRune(r)
			continue
		}
		seen++
		if seen > digits-visiblePhoneDigits {
			b.WriteRune(r)
		} else {
			b.WriteByte('*')
		}
	}
	return b.String()
}

// Enabled реализует интерфейс slog.Handler
func (h *MaskerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle реализует интерфейс slog.Handler
func (h *MaskerHandler) Handle(ctx context.Context, record slog.Record) error {
	// Clone() не копирует атрибуты в изолированное хранилище, поэтому
	// собираем новую запись с маскированными атрибутами.
	r := slog.NewRecord(record.Time, record.Level, maskSensitive(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, r)
}

// WithAttrs реализует интерфейс slog.Handler
func (h *MaskerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		maskedAttrs[i] = maskAttr(attr)
	}
	return &MaskerHandler{
		handler: h.handler.WithAttrs(maskedAttrs),
	}
}

// WithGroup реализует интерфейс slog.Handler
func (h *MaskerHandler) WithGroup(name string) slog.Handler {
	return &MaskerHandler{
		handler: h.handler.WithGroup(name),
	}
}

func maskAttr(a slog.Attr) slog.Attr {
	return slog.Attr{Key: a.Key, Value: maskAttributeValue(a.Value)}
}

// maskAttributeValue рекурсивно маскирует значения атрибутов
func maskAttributeValue(value slog.Value) slog.Value {
	value = value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return slog.StringValue(maskSensitive(value.String()))
	case slog.KindAny:
		if err, ok := value.Any().(error); ok {
			return slog.StringValue(maskSensitive(err.Error()))
		}
		return value
	case slog.KindGroup:
		group := value.Group()
		maskedGroup := make([]slog.Attr, len(group))
		for i, attr := range group {
			maskedGroup[i] = maskAttr(attr)
		}
		return slog.GroupValue(maskedGroup...)
	default:
		return value
	}
}

// NewMaskedLogger создает новый экземпляр slog.Logger с маскировкой
func NewMaskedLogger(handler slog.Handler) *slog.Logger {
	return slog.New(NewMaskerHandler(handler))
}
