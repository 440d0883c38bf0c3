// Package parser locates product blocks and table views inside sheet grids.
package parser

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ThousandsMultiplier converts values the sheet stores in thousands.
// "15.5" in the sheet means 15,500.
const ThousandsMultiplier = 1000

// MaxDisplayFractionDigits caps the fraction digits of a scaled value.
const MaxDisplayFractionDigits = 3

// DefaultLocale is the language used for thousands separators.
var DefaultLocale = language.English

// NewNumberPrinter returns a printer rendering numbers for tag.
// A Printer is not safe for concurrent use.
func NewNumberPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ScaleThousands parses raw as a decimal (comma accepted as decimal
// separator), multiplies it by ThousandsMultiplier and renders it with the
// printer's thousands separators. Text that is not a number is returned as is.
func ScaleThousands(raw string, p *message.Printer) string {
	v, ok := parseDecimal(raw)
	if !ok {
		return raw
	}
	return p.Sprintf("%v", number.Decimal(v*ThousandsMultiplier, number.MaxFractionDigits(MaxDisplayFractionDigits)))
}

func parseDecimal(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
