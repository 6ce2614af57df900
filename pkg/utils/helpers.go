package utils

import (
	"math"
	"unicode"
	"unicode/utf8"
)

// RoundHalfEven rounds to the nearest integer, ties to even (20.5 -> 20, 21.5 -> 22)
func RoundHalfEven(value float64) int {
	return int(math.RoundToEven(value))
}

// CapitalizeFirst upper-cases the first rune and leaves the rest untouched
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
