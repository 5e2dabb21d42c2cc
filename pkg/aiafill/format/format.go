// Package format renders numbers and dates the way billing documents show them.
package format

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the layout used by Date.
const DateLayout = "01/02/2006"

// message.Printer is not safe for concurrent use.
func printer() *message.Printer {
	return message.NewPrinter(language.AmericanEnglish)
}

// Currency formats v as US dollars with two decimals and thousands separators:
// 1234.5 -> "$1,234.50", -20 -> "-$20.00".
func Currency(v float64) string {
	v = round(v, 2)
	if v < 0 {
		return "-$" + printer().Sprintf("%.2f", -v)
	}
	return "$" + printer().Sprintf("%.2f", v)
}

// Percent formats v (already in percent units) with one decimal: 37.456 -> "37.5%".
func Percent(v float64) string {
	return printer().Sprintf("%.1f%%", round(v, 1))
}

// Date formats t as MM/DD/YYYY. The zero time renders as "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// round rounds half away from zero and folds -0 into 0.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
