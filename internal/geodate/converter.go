package geodate

import (
	"context"

	"geocal/internal/model"
)

// Converter maps timestamps to geodate text and back. Parse must be the
// inverse of Format for any text Format produced with the same specifier,
// and must roll an out-of-range day over into the next period
// deterministically.
type Converter interface {
	Format(ctx context.Context, spec string, ts int64, lon float64) (string, error)
	Parse(ctx context.Context, spec, text string, lon float64) (int64, error)
}

// Ephemeris lists the astronomical events of the day containing ts.
type Ephemeris interface {
	Events(ctx context.Context, ts int64, lon, lat float64) ([]model.Event, error)
}

// PeriodQuerier is implemented by converters that can report the last
// 0-indexed day of the month or season containing ts directly.
type PeriodQuerier interface {
	LastDay(ctx context.Context, v model.Variant, ts int64, lon float64) (int, error)
}
