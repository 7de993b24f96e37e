package exporter

import (
	"strconv"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"
)

const dateTimeLayout = "02.01.2006 15:04:05"

// NumberToString форматирует число, дополняя его нулями слева до width цифр.
func NumberToString(value int64, width int) string {
	result := strconv.FormatInt(value, 10)
	if len(result) < width {
		result = strings.Repeat("0", width-len(result)) + result
	}
	return result
}

// FormatFloat форматирует координату в кратчайшем точном виде.
func FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatDateTime форматирует unix-время как "dd.MM.yyyy hh:mm:ss".
// Нулевая метка превращается в пустую строку, и поле не выводится.
func FormatDateTime(timestamp int64, loc *time.Location) string {
	if timestamp == 0 {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(timestamp, 0).In(loc).Format(dateTimeLayout)
}

// currencyExponents хранит число знаков после запятой для валют,
// у которых оно отличается от двух (ISO 4217).
var currencyExponents = map[string]int32{
	"BIF": 0, "BYR": 0, "CLP": 0, "CVE": 0, "DJF": 0, "GNF": 0,
	"ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0, "MGA": 0, "PYG": 0,
	"RWF": 0, "UGX": 0, "UYI": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3,
	"TND": 3,
}

// FormatMoneyAmount переводит сумму из минимальных единиц валюты в основные
// и добавляет код валюты: 12345, "USD" → "123.45 USD".
func FormatMoneyAmount(amount int64, currency string) string {
	if currency == "" {
		return ""
	}
	code := strings.ToUpper(currency)
	exp, ok := currencyExponents[code]
	if !ok {
		exp = 2
	}
	return decimal.New(amount, -exp).StringFixed(exp) + " " + code
}

// FormatPhoneNumber расставляет в номере телефона разделители
// международного формата. Номер, который не удалось разобрать,
// возвращается как "+цифры".
func FormatPhoneNumber(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return phone
	}
	number, err := phonenumbers.Parse("+"+digits, "")
	if err != nil || !phonenumbers.IsPossibleNumber(number) {
		return "+" + digits
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

// FormatUsername добавляет к имени пользователя "@".
func FormatUsername(username string) string {
	if username == "" {
		return ""
	}
	return "@" + username
}

// FormatDuration форматирует длительность в секундах; 0 - пустая строка.
func FormatDuration(seconds int) string {
	if seconds == 0 {
		return ""
	}
	return strconv.Itoa(seconds) + " sec."
}
