package services

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatVND formats an amount as Vietnamese dong: whole dong, dot-grouped
// thousands and a trailing currency sign, e.g. "1.234.567 ₫".
func FormatVND(amount float64) string {
	rounded := math.Round(amount)
	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	result := applyThousandsGrouping(fmt.Sprintf("%.0f", rounded), ".") + " ₫"
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts sep between every group of three digits,
// counting from the right.
func applyThousandsGrouping(s, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatDate renders t as DD/MM/YYYY. The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// ParseQuoteDate parses the YYYY-MM-DD form the quote date is stored in.
func ParseQuoteDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(s))
}

// FormatMeasure renders a measurement with at most four decimals and a comma
// as the decimal separator.
func FormatMeasure(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	intPart, frac, found := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	out := applyThousandsGrouping(intPart, ".")
	if found {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatQty returns whole quantities without decimals and fractional ones with
// up to two decimals.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return strings.TrimRight(fmt.Sprintf("%.2f", qty), "0")
}

// NumberToRoman converts a positive number to Roman numerals. Numbers below 1
// yield "".
func NumberToRoman(n int) string {
	if n < 1 {
		return ""
	}
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}
