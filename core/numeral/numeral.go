// Package numeral converts chapter tokens written in Arabic or Roman numerals
// to integers.
package numeral

import (
	"strconv"
	"strings"
)

var romanValues = map[byte]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
	'D': 500,
	'M': 1000,
}

// ParseChapter converts an Arabic or Roman chapter token to an integer.
// Roman numerals are case-insensitive. It returns false for an empty token,
// a token with characters outside the numeral alphabets, or an Arabic value
// that does not fit in an int.
func ParseChapter(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	if isDigits(token) {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return parseRoman(token)
}

// IsRoman reports whether token is made only of Roman numeral letters.
func IsRoman(token string) bool {
	if token == "" {
		return false
	}
	for i := 0; i < len(token); i++ {
		if _, ok := romanValues[upper(token[i])]; !ok {
			return false
		}
	}
	return true
}

// parseRoman accumulates right to left: a symbol smaller than the one
// consumed just before it is subtracted, anything else is added.
// Non-canonical forms such as "IIII" or "IC" are accepted.
func parseRoman(token string) (int, bool) {
	total, prev := 0, 0
	for i := len(token) - 1; i >= 0; i-- {
		v, ok := romanValues[upper(token[i])]
		if !ok {
			return 0, false
		}
		if v < prev {
			total -= v
		} else {
			total += v
		}
		prev = v
	}
	return total, true
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman returns the canonical upper-case Roman numeral for n in 1..3999.
func ToRoman(n int) (string, bool) {
	if n < 1 || n > 3999 {
		return "", false
	}
	var sb strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String(), true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
