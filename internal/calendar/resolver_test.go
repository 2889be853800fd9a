package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geocal/internal/geodate"
	"geocal/internal/geodate/geodatetest"
	"geocal/internal/model"
)

func TestLunisolarLastDay(t *testing.T) {
	cases := []struct {
		name      string
		monthDays int
		want      int
	}{
		{"long month round-trips day 29", 30, 29},
		{"short month rolls day 29 over", 29, 28},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := geodatetest.New(c.monthDays, 91)
			for _, ts := range []int64{f.Timestamp(5, 3, 0), f.Timestamp(5, 3, 17), -f.Timestamp(2, 1, 4)} {
				got, err := MonthLastDay(context.Background(), f, model.Lunisolar, ts, -1.8)
				require.NoError(t, err)
				assert.Equal(t, c.want, got, "ts=%d", ts)
			}
		})
	}
}

func TestSolarLastDayRecoversEveryLength(t *testing.T) {
	for last := 87; last <= 98; last++ {
		f := geodatetest.New(30, last+1)
		ts := f.SolarTimestamp(14, 2, 40)

		got, err := MonthLastDay(context.Background(), f, model.Solar, ts, 0)
		require.NoError(t, err)
		assert.Equal(t, last, got)
	}
}

func TestSolarScanStopsAtFirstMissingDay(t *testing.T) {
	// Days 88..93 survive the round trip, 94 does not.
	f := geodatetest.New(30, 94)
	ts := f.SolarTimestamp(1, 0, 0)

	got, err := MonthLastDay(context.Background(), f, model.Solar, ts, 0)
	require.NoError(t, err)
	assert.Equal(t, 93, got)

	// Seven probes (88..94), three calls each.
	assert.Equal(t, 7*2, f.FormatCalls)
	assert.Equal(t, 7, f.ParseCalls)
}

func TestSolarScanExhausted(t *testing.T) {
	f := geodatetest.New(30, 120)

	_, err := MonthLastDay(context.Background(), f, model.Solar, f.SolarTimestamp(0, 1, 1), 0)
	require.ErrorIs(t, err, ErrScanExhausted)
}

func TestProbeForcesMidDay(t *testing.T) {
	spy := &specSpy{Converter: geodatetest.New(29, 91)}

	_, err := MonthLastDay(context.Background(), spy, model.Lunisolar, 1403322675, 0)
	require.NoError(t, err)
	require.NotEmpty(t, spy.probes)
	for _, s := range spy.probes {
		assert.True(t, strings.HasSuffix(s, ":50:00"), s)
	}
}

func TestConverterErrorPropagates(t *testing.T) {
	boom := errors.New("converter unavailable")
	f := geodatetest.New(30, 91)
	f.Err = boom

	_, err := MonthLastDay(context.Background(), f, model.Lunisolar, 0, 0)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.FormatCalls, "no retries")

	_, err = MonthLastDay(context.Background(), f, model.Solar, 0, 0)
	require.ErrorIs(t, err, boom)
}

func TestPeriodQuerierIsUsedDirectly(t *testing.T) {
	q := &querier{Fake: geodatetest.New(29, 91), last: 95}

	got, err := MonthLastDay(context.Background(), q, model.Solar, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 95, got)
	assert.Zero(t, q.FormatCalls)

	q.last = 40
	_, err = MonthLastDay(context.Background(), q, model.Lunisolar, 0, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
}

type specSpy struct {
	geodate.Converter
	probes []string
}

func (s *specSpy) Format(ctx context.Context, spec string, ts int64, lon float64) (string, error) {
	if !strings.Contains(spec, geodate.TokenDay) {
		s.probes = append(s.probes, spec)
	}
	return s.Converter.Format(ctx, spec, ts, lon)
}

type querier struct {
	*geodatetest.Fake
	last int
}

func (q *querier) LastDay(context.Context, model.Variant, int64, float64) (int, error) {
	return q.last, nil
}
