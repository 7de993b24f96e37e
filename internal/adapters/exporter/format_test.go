package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumberToString(t *testing.T) {
	testCases := []struct {
		name  string
		value int64
		width int
		want  string
	}{
		{"Дополняет нулями", 7, 3, "007"},
		{"Не обрезает длинное число", 1234, 2, "1234"},
		{"Нулевая ширина", 42, 0, "42"},
		{"Точно по ширине", 10, 2, "10"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NumberToString(tc.value, tc.width))
		})
	}
}

func TestFormatDateTime(t *testing.T) {
	t.Run("Форматирует время в заданном поясе", func(t *testing.T) {
		assert.Equal(t, "14.07.2017 02:40:00", FormatDateTime(1500000000, time.UTC))
	})

	t.Run("Учитывает смещение пояса", func(t *testing.T) {
		loc := time.FixedZone("MSK", 3*60*60)
		assert.Equal(t, "14.07.2017 05:40:00", FormatDateTime(1500000000, loc))
	})

	t.Run("Нулевая метка дает пустую строку", func(t *testing.T) {
		assert.Empty(t, FormatDateTime(0, time.UTC))
	})
}

func TestFormatMoneyAmount(t *testing.T) {
	testCases := []struct {
		name     string
		amount   int64
		currency string
		want     string
	}{
		{"Два знака по умолчанию", 12345, "USD", "123.45 USD"},
		{"Валюта без дробной части", 500, "JPY", "500 JPY"},
		{"Три знака", 1234, "KWD", "1.234 KWD"},
		{"Код приводится к верхнему регистру", 100, "eur", "1.00 EUR"},
		{"Пустая валюта", 100, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatMoneyAmount(tc.amount, tc.currency))
		})
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	t.Run("Международный формат", func(t *testing.T) {
		assert.Equal(t, "+7 999 123-45-67", FormatPhoneNumber("79991234567"))
	})

	t.Run("Неразборчивый номер возвращается с плюсом", func(t *testing.T) {
		assert.Equal(t, "+42", FormatPhoneNumber("42"))
	})

	t.Run("Строка без цифр не меняется", func(t *testing.T) {
		assert.Equal(t, "", FormatPhoneNumber(""))
		assert.Equal(t, "hidden", FormatPhoneNumber("hidden"))
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "@durov", FormatUsername("durov"))
	assert.Empty(t, FormatUsername(""))
	assert.Equal(t, "15 sec.", FormatDuration(15))
	assert.Empty(t, FormatDuration(0))
	assert.Equal(t, "55.7558", FormatFloat(55.7558))
	assert.Equal(t, "-0.5", FormatFloat(-0.5))
}
