package geodatetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geocal/internal/geodate"
	"geocal/internal/model"
)

func TestFakeRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := New(29, 94)
	spec := geodate.DateSpec(model.Lunisolar)

	for _, ts := range []int64{0, 43200, 1403322675, -1, -86400 * 400} {
		a, err := f.Format(ctx, spec, ts, 0)
		require.NoError(t, err)
		back, err := f.Parse(ctx, spec, a, 0)
		require.NoError(t, err)
		b, err := f.Format(ctx, spec, back, 0)
		require.NoError(t, err)
		assert.Equal(t, a, b, "ts=%d", ts)
	}
}

func TestFakeDeterministic(t *testing.T) {
	ctx := context.Background()
	f := New(30, 91)
	a, _ := f.Format(ctx, geodate.DateSpec(model.Solar), 1403322675, 12.5)
	b, _ := f.Format(ctx, geodate.DateSpec(model.Solar), 1403322675, 12.5)
	assert.Equal(t, a, b)
	assert.Equal(t, 2, f.FormatCalls)
}

func TestFakeRollover(t *testing.T) {
	ctx := context.Background()
	f := New(29, 91)
	ts := f.Timestamp(3, 4, 10)

	got, err := f.Format(ctx, geodate.DateSpec(model.Lunisolar), ts, 0)
	require.NoError(t, err)
	assert.Equal(t, "00:03:04:10:50:00", got)

	back, err := f.Parse(ctx, geodate.DateSpec(model.Lunisolar), "00:03:04:29:50:00", 0)
	require.NoError(t, err)
	got, _ = f.Format(ctx, geodate.DateSpec(model.Lunisolar), back, 0)
	assert.Equal(t, "00:03:05:00:50:00", got)
}

func TestFakeNegativeYear(t *testing.T) {
	f := New(30, 91)
	got, err := f.Format(context.Background(), geodate.DateSpec(model.Lunisolar), -86400, 0)
	require.NoError(t, err)
	assert.Equal(t, "-01:99:11:29:00:00", got)
}
