// Package calendar finds the length of the geodate month or season containing
// a timestamp and lays it out as a grid of day cells.
package calendar

import (
	"context"
	"errors"
	"fmt"

	"geocal/internal/geodate"
	appLog "geocal/internal/log"
	"geocal/internal/model"
)

var (
	// ErrScanExhausted means no missing day was found through the end of the
	// solar scan range; the converter broke its contract.
	ErrScanExhausted = errors.New("calendar: solar season boundary not found")
	// ErrOutOfRange means a last day outside the variant's domain was reported.
	ErrOutOfRange = errors.New("calendar: last day out of range")
)

const (
	lunisolarProbeDay = 29
	solarScanFirst    = 88
	solarScanLast     = 99
)

// MonthLastDay returns the last 0-indexed day of the lunisolar month or solar
// season containing ts.
//
// The converter has no "days in period" query, so the boundary is found by
// forcing a day index into a round trip: a day that does not exist rolls over
// into the next period and comes back formatted differently. Converters that
// implement geodate.PeriodQuerier are asked directly instead.
func MonthLastDay(ctx context.Context, conv geodate.Converter, v model.Variant, ts int64, lon float64) (int, error) {
	var (
		last int
		err  error
	)
	if q, ok := conv.(geodate.PeriodQuerier); ok {
		last, err = q.LastDay(ctx, v, ts, lon)
	} else if v == model.Solar {
		last, err = solarLastDay(ctx, conv, ts, lon)
	} else {
		last, err = lunisolarLastDay(ctx, conv, ts, lon)
	}
	if err != nil {
		return 0, err
	}

	lo, hi := v.LastDayRange()
	if last < lo || last > hi {
		return 0, fmt.Errorf("%w: %s last day %d not in [%d, %d]", ErrOutOfRange, v, last, lo, hi)
	}
	appLog.Debug("period resolved", "variant", v.String(), "ts", ts, "last_day", last)
	return last, nil
}

func lunisolarLastDay(ctx context.Context, conv geodate.Converter, ts int64, lon float64) (int, error) {
	ok, err := dayExists(ctx, conv, model.Lunisolar, lunisolarProbeDay, ts, lon)
	if err != nil {
		return 0, err
	}
	if ok {
		return lunisolarProbeDay, nil
	}
	return lunisolarProbeDay - 1, nil
}

func solarLastDay(ctx context.Context, conv geodate.Converter, ts int64, lon float64) (int, error) {
	for day := solarScanFirst; day <= solarScanLast; day++ {
		ok, err := dayExists(ctx, conv, model.Solar, day, ts, lon)
		if err != nil {
			return 0, err
		}
		if !ok {
			return day - 1, nil
		}
	}
	return 0, ErrScanExhausted
}

// dayExists reports whether day survives a format, parse, format round trip
// unchanged within the period containing ts.
func dayExists(ctx context.Context, conv geodate.Converter, v model.Variant, day int, ts int64, lon float64) (bool, error) {
	spec := geodate.DateSpec(v)

	a, err := conv.Format(ctx, geodate.ProbeSpec(v, day), ts, lon)
	if err != nil {
		return false, fmt.Errorf("calendar: probe day %d: %w", day, err)
	}
	t, err := conv.Parse(ctx, spec, a, lon)
	if err != nil {
		return false, fmt.Errorf("calendar: probe day %d: %w", day, err)
	}
	b, err := conv.Format(ctx, spec, t, lon)
	if err != nil {
		return false, fmt.Errorf("calendar: probe day %d: %w", day, err)
	}
	return a == b, nil
}
