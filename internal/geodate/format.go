// Package geodate defines the contract between geocal and the external geodate
// converter: the format specifier vocabulary, the forward/reverse conversion
// and ephemeris interfaces, and a command-line adapter.
package geodate

import (
	"fmt"
	"strings"

	"geocal/internal/model"
)

// Format tokens understood by the converter.
const (
	TokenEra     = "%h"
	TokenYear    = "%y"
	TokenMonth   = "%m" // lunisolar month
	TokenSeason  = "%s" // solar season
	TokenDay     = "%d"
	TokenHour    = "%c" // centiday
	TokenMinute  = "%b" // dimiday
	fieldSep     = ":"
	probeHour    = "50"
	probeMinute  = "00"
	maxDayDigits = 2
)

// Field positions in a date formatted with DateSpec.
const (
	FieldEra = iota
	FieldYear
	FieldPeriod
	FieldDay
	FieldHour
	FieldMinute
)

// EventTimeSpec formats the time of day of an ephemeris event.
var EventTimeSpec = Spec(TokenHour, TokenMinute)

// Spec joins tokens (or forced literal values) into a specifier.
func Spec(tokens ...string) string {
	return strings.Join(tokens, fieldSep)
}

// Split breaks converter output into its fields.
func Split(text string) []string {
	return strings.Split(text, fieldSep)
}

func periodToken(v model.Variant) string {
	if v == model.Solar {
		return TokenSeason
	}
	return TokenMonth
}

// DateSpec is the full date and time specifier for a variant.
func DateSpec(v model.Variant) string {
	return Spec(TokenEra, TokenYear, periodToken(v), TokenDay, TokenHour, TokenMinute)
}

// ProbeSpec is DateSpec with the day forced to day and the time forced to
// mid-day, so the probe never sits on a day boundary.
func ProbeSpec(v model.Variant, day int) string {
	return Spec(TokenEra, TokenYear, periodToken(v), fmt.Sprintf("%0*d", maxDayDigits, day), probeHour, probeMinute)
}
