package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize приводит строку к виду для сравнения без учёта регистра и диакритики:
// каноническая декомпозиция (NFD), удаление комбинируемых знаков, нижний регистр.
// Функция идемпотентна: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.ToLower(out)
}

// isShortNumeric сообщает, что строка является числом из менее чем 5 цифр (поиск по ID).
func isShortNumeric(s string) bool {
	if s == "" || len(s) >= 5 {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
