package directory

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display helpers. Their output is for people only and is never parsed back
// into filters or sort keys.

// Initials returns the upper-cased first letters of both names.
func Initials(first, last string) string {
	return strings.ToUpper(firstRune(first) + firstRune(last))
}

// FormatSalary renders USD with thousands separators; whole amounts carry no
// cents.
func FormatSalary(d decimal.Decimal) string {
	p := message.NewPrinter(language.AmericanEnglish)
	if d.IsInteger() {
		return p.Sprintf("$%d", d.IntPart())
	}
	return p.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// FormatHireDate renders e.g. "Mar 15, 2020".
func (e Employee) FormatHireDate() string {
	if e.HireDate.IsZero() {
		return ""
	}
	return e.HireDate.Format("Jan 2, 2006")
}

// Stars is the number of filled stars for a rating, 0 to 5.
func Stars(performance float64) int {
	n := int(math.Floor(performance))
	return max(0, min(5, n))
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	return string(r)
}
