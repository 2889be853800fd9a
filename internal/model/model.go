package model

// Variant selects which geodate calendar is rendered.
type Variant int

const (
	// Lunisolar months are 29 or 30 days long and laid out in rows of 8
	// with two leap gaps.
	Lunisolar Variant = iota
	// Solar seasons span 88 to 99 days and are laid out in uniform rows of 10.
	Solar
)

func (v Variant) String() string {
	switch v {
	case Lunisolar:
		return "lunisolar"
	case Solar:
		return "solar"
	default:
		return "unknown"
	}
}

// RowWidth is the number of day cells in a full grid row.
func (v Variant) RowWidth() int {
	if v == Solar {
		return 10
	}
	return 8
}

// LastDayRange returns the inclusive bounds of the last 0-indexed day of a
// month (Lunisolar) or season (Solar).
func (v Variant) LastDayRange() (lo, hi int) {
	if v == Solar {
		return 87, 98
	}
	return 28, 29
}

// Event is a single ephemeris occurrence (moon phase, solstice, sunrise...)
// as reported by the converter.
type Event struct {
	Timestamp int64
	Label     string
}
