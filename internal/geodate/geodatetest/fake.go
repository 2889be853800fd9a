// Package geodatetest provides an in-memory geodate converter with injectable
// month and season lengths for tests.
package geodatetest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"geocal/internal/geodate"
	"geocal/internal/model"
)

const (
	secondsPerDay  = 86400
	monthsPerYear  = 12
	seasonsPerYear = 4
	ticksPerDay    = 10000 // centidays * dimidays
	defaultMonth   = 30
	defaultSeason  = 91
)

// Fake is a deterministic Converter and Ephemeris. Every lunisolar month has
// MonthDays days and every solar season SeasonDays days, counted from the
// Unix epoch. A day value past the end of a period rolls over into the next
// one, like the real converter.
type Fake struct {
	MonthDays  int
	SeasonDays int
	// EventList is returned as is by Events.
	EventList []model.Event
	// Err, when set, is returned by every call.
	Err error

	FormatCalls int
	ParseCalls  int
}

// New returns a Fake with the given month and season lengths in days.
func New(monthDays, seasonDays int) *Fake {
	return &Fake{MonthDays: monthDays, SeasonDays: seasonDays}
}

func (f *Fake) lengths(spec string) (days, perYear int) {
	if strings.Contains(spec, geodate.TokenSeason) {
		if f.SeasonDays <= 0 {
			return defaultSeason, seasonsPerYear
		}
		return f.SeasonDays, seasonsPerYear
	}
	if f.MonthDays <= 0 {
		return defaultMonth, monthsPerYear
	}
	return f.MonthDays, monthsPerYear
}

// Format implements geodate.Converter.
func (f *Fake) Format(_ context.Context, spec string, ts int64, _ float64) (string, error) {
	f.FormatCalls++
	if f.Err != nil {
		return "", f.Err
	}
	days, perYear := f.lengths(spec)

	d := floorDiv(ts, secondsPerDay)
	sec := ts - d*secondsPerDay
	p := floorDiv(d, int64(days))
	day := d - p*int64(days)
	year := floorDiv(p, int64(perYear))
	period := p - year*int64(perYear)
	era := floorDiv(year, 100)
	ticks := sec * ticksPerDay / secondsPerDay

	values := map[string]int64{
		geodate.TokenEra:    era,
		geodate.TokenYear:   year - era*100,
		geodate.TokenMonth:  period,
		geodate.TokenSeason: period,
		geodate.TokenDay:    day,
		geodate.TokenHour:   ticks / 100,
		geodate.TokenMinute: ticks % 100,
	}

	tokens := geodate.Split(spec)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		v, ok := values[tok]
		if !ok {
			out[i] = tok
			continue
		}
		out[i] = pad2(v)
	}
	return strings.Join(out, ":"), nil
}

// Parse implements geodate.Converter.
func (f *Fake) Parse(_ context.Context, spec, text string, _ float64) (int64, error) {
	f.ParseCalls++
	if f.Err != nil {
		return 0, f.Err
	}
	days, perYear := f.lengths(spec)

	tokens := geodate.Split(spec)
	fields := geodate.Split(text)
	if len(tokens) != len(fields) {
		return 0, fmt.Errorf("geodatetest: %d fields for %d tokens", len(fields), len(tokens))
	}
	vals := make(map[string]int64, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("geodatetest: field %d: %w", i, err)
		}
		vals[tok] = n
	}

	year := vals[geodate.TokenEra]*100 + vals[geodate.TokenYear]
	period := vals[geodate.TokenMonth] + vals[geodate.TokenSeason]
	d := (year*int64(perYear)+period)*int64(days) + vals[geodate.TokenDay]
	ticks := vals[geodate.TokenHour]*100 + vals[geodate.TokenMinute]
	// Round up so that formatting the result yields the same tick.
	return d*secondsPerDay + (ticks*secondsPerDay+ticksPerDay-1)/ticksPerDay, nil
}

// Events implements geodate.Ephemeris.
func (f *Fake) Events(_ context.Context, _ int64, _, _ float64) ([]model.Event, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]model.Event(nil), f.EventList...), nil
}

// Timestamp returns the timestamp of a lunisolar date at mid-day.
func (f *Fake) Timestamp(year, month, day int) int64 {
	days, perYear := f.lengths(geodate.TokenMonth)
	d := (int64(year)*int64(perYear)+int64(month))*int64(days) + int64(day)
	return d*secondsPerDay + secondsPerDay/2
}

// SolarTimestamp returns the timestamp of a solar date at mid-day.
func (f *Fake) SolarTimestamp(year, season, day int) int64 {
	days, perYear := f.lengths(geodate.TokenSeason)
	d := (int64(year)*int64(perYear)+int64(season))*int64(days) + int64(day)
	return d*secondsPerDay + secondsPerDay/2
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func pad2(v int64) string {
	if v < 0 {
		return "-" + fmt.Sprintf("%02d", -v)
	}
	return fmt.Sprintf("%02d", v)
}
