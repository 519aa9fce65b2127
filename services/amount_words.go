package services

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

var viDigits = []string{"không", "một", "hai", "ba", "bốn", "năm", "sáu", "bảy", "tám", "chín"}

var viGroupUnits = []string{"", "nghìn", "triệu"}

// AmountToWordsVi spells a dong amount in Vietnamese, rounded to whole dong.
// Example: 1250000 → "Một triệu hai trăm năm mươi nghìn đồng"
func AmountToWordsVi(amount float64) string {
	if amount < 0 {
		return "Âm " + lowerFirst(AmountToWordsVi(-amount))
	}

	n := int64(math.Round(amount))
	if n == 0 {
		return "Không đồng"
	}

	// Split into groups of three digits, least significant first.
	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for g := len(groups) - 1; g >= 0; g-- {
		leading := g == len(groups)-1
		words := readTriplet(groups[g], leading)
		if words == "" {
			continue
		}
		if unit := groupUnit(g); unit != "" {
			words += " " + unit
		}
		parts = append(parts, words)
	}

	return upperFirst(strings.Join(parts, " ")) + " đồng"
}

// groupUnit names the g-th group of three digits: nghìn, triệu, tỷ, nghìn tỷ, ...
func groupUnit(g int) string {
	unit := viGroupUnits[g%3]
	for i := 0; i < g/3; i++ {
		if unit != "" {
			unit += " "
		}
		unit += "tỷ"
	}
	return unit
}

// readTriplet reads a number below 1000. The leading group of the whole amount
// omits absent hundreds and tens; inner groups read a zero tens digit as "lẻ".
func readTriplet(n int64, leading bool) string {
	if n == 0 {
		return ""
	}
	h, t, u := n/100, (n/10)%10, n%10
	hasHundreds := !leading || n >= 100
	hasTens := !leading || n >= 10

	var words []string
	if hasHundreds && h != 0 {
		words = append(words, viDigits[h], "trăm")
	}
	switch {
	case hasTens && t == 1:
		words = append(words, "mười")
	case hasTens && t > 1:
		words = append(words, viDigits[t], "mươi")
	case hasTens && t == 0 && u != 0 && hasHundreds:
		words = append(words, "lẻ")
	}
	switch {
	case u == 0:
	case u == 1 && t > 1:
		words = append(words, "mốt")
	case u == 5 && t >= 1 && hasTens:
		words = append(words, "lăm")
	default:
		words = append(words, viDigits[u])
	}
	return strings.Join(words, " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
