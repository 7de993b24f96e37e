package exporter

import (
	"runtime"
	"strings"
)

// Допустимые окончания строк.
const (
	LineBreakLF   = "\n"
	LineBreakCRLF = "\r\n"
)

// quotePrefix открывает каждую строку многострочного значения.
const quotePrefix = "> "

// DefaultLineBreak возвращает окончание строк, принятое на текущей платформе.
func DefaultLineBreak() string {
	if runtime.GOOS == "windows" {
		return LineBreakCRLF
	}
	return LineBreakLF
}

// KeyValue - одна пара "метка: значение".
type KeyValue struct {
	Key   string
	Value string
}

// Serializer собирает пары ключ-значение в текстовый блок.
// Окончание строк задается один раз при создании.
type Serializer struct {
	lineBreak string
}

// NewSerializer создает Serializer. Пустой lineBreak означает окончание
// строк платформы.
func NewSerializer(lineBreak string) Serializer {
	if lineBreak == "" {
		lineBreak = DefaultLineBreak()
	}
	return Serializer{lineBreak: lineBreak}
}

// LineBreak возвращает используемое окончание строк.
func (s Serializer) LineBreak() string {
	return s.lineBreak
}

// SerializeKeyValue выводит пары в исходном порядке. Пары с пустым значением
// пропускаются. Значение с переводом строки выводится цитатой: метка
// с двоеточием на отдельной строке, затем каждая строка значения с "> ".
func (s Serializer) SerializeKeyValue(values []KeyValue) string {
	var b strings.Builder
	for _, kv := range values {
		if kv.Value == "" {
			continue
		}
		b.WriteString(kv.Key)
		if strings.IndexByte(kv.Value, '\n') >= 0 {
			b.WriteString(":")
			b.WriteString(s.lineBreak)
			s.serializeMultiline(&b, kv.Value)
		} else {
			b.WriteString(": ")
			b.WriteString(kv.Value)
			b.WriteString(s.lineBreak)
		}
	}
	return b.String()
}

func (s Serializer) serializeMultiline(b *strings.Builder, value string) {
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		// "\r" перед "\n" - часть разделителя, а не строки.
		if i < len(lines)-1 {
			line = strings.TrimSuffix(line, "\r")
		}
		b.WriteString(quotePrefix)
		b.WriteString(line)
		b.WriteString(s.lineBreak)
	}
}

// SerializeNested выводит пары как вложенный блок: метка с двоеточием на
// отдельной строке, затем каждая строка блока с "> ". Блок цитируется всегда,
// даже из одного поля. Если все значения пусты, выводится пустая строка.
func (s Serializer) SerializeNested(label string, values []KeyValue) string {
	inner := s.SerializeKeyValue(values)
	if inner == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(label)
	b.WriteString(":")
	b.WriteString(s.lineBreak)
	for _, line := range strings.Split(strings.TrimSuffix(inner, s.lineBreak), s.lineBreak) {
		b.WriteString(quotePrefix)
		b.WriteString(line)
		b.WriteString(s.lineBreak)
	}
	return b.String()
}
