package sheet

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

// parseAmount parses a decimal amount into minor units. Both "1,234.50" and
// "1.234,50" read as 123450; a lone separator followed by exactly three
// digits is a thousands separator ("1.234" -> 123400).
func parseAmount(s string) (int64, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '₹', '€', '$':
			return -1
		}

		return r
	}, s)
	if clean == "" {
		return 0, errEmptyAmount
	}

	lastDot := strings.LastIndexByte(clean, '.')
	lastComma := strings.LastIndexByte(clean, ',')

	decimalSep := byte(0)

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimalSep = '.'
		if lastComma > lastDot {
			decimalSep = ','
		}
	case lastDot >= 0:
		decimalSep = lonelySeparator(clean, '.', lastDot)
	case lastComma >= 0:
		decimalSep = lonelySeparator(clean, ',', lastComma)
	}

	var b strings.Builder

	for i := 0; i < len(clean); i++ {
		c := clean[i]

		switch {
		case c == decimalSep:
			b.WriteByte('.')
		case c == '.' || c == ',':
		default:
			b.WriteByte(c)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// lonelySeparator decides whether the only kind of separator in s is the
// decimal point. Repeated or three-digit-grouped separators are thousands.
func lonelySeparator(s string, sep byte, last int) byte {
	if strings.Count(s, string(sep)) > 1 {
		return 0
	}

	if len(s)-last-1 == 3 {
		return 0
	}

	return sep
}
