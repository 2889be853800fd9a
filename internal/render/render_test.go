package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geocal/internal/calendar"
	"geocal/internal/geodate/geodatetest"
	"geocal/internal/model"
)

func renderPlain(t *testing.T, p Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, ColorNever).Render(&buf, p))
	return buf.String()
}

func TestRenderLunisolarShortMonth(t *testing.T) {
	f := geodatetest.New(29, 91)
	page, err := BuildPage(context.Background(), f, f, Request{
		Variant:   model.Lunisolar,
		Timestamp: f.Timestamp(15, 3, 12),
	})
	require.NoError(t, err)

	want := `+-------------------------+
| Date:        0015-03-12 |
+-------------------------+
| So Me Ve Te Ma Ju Sa Lu |
| 00 01 02 03 04 05 06    |
| 07 08 09 10 11 12 13 14 |
| 15 16 17 18 19 20 21    |
| 22 23 24 25 26 27 28    |
+-------------------------+
| Time:             50:00 |
+-------------------------+
`
	assert.Equal(t, want, renderPlain(t, page))
}

func TestRenderEphemeris(t *testing.T) {
	f := geodatetest.New(30, 91)
	f.EventList = []model.Event{
		{Timestamp: 43200, Label: "Sunset"},
		{Timestamp: 0, Label: "First Quarter Moon"},
		{Timestamp: 100, Label: "Current"},
	}
	page, err := BuildPage(context.Background(), f, f, Request{
		Variant:       model.Lunisolar,
		Timestamp:     f.Timestamp(15, 3, 29),
		ShowEphemeris: true,
	})
	require.NoError(t, err)
	require.Len(t, page.Events, 2)

	out := renderPlain(t, page)
	assert.Contains(t, out, "| 22 23 24 25 26 27 28 29 |\n")
	assert.Contains(t, out, "| First Quarter:    00:00 |\n| Sunset:           50:00 |\n+-------------------------+\n")
	assert.NotContains(t, out, "Current")
}

func TestRenderSolarAlignment(t *testing.T) {
	f := geodatetest.New(30, 94)
	page, err := BuildPage(context.Background(), f, f, Request{
		Variant:   model.Solar,
		Timestamp: f.SolarTimestamp(7, 2, 40),
	})
	require.NoError(t, err)

	out := renderPlain(t, page)
	assert.Contains(t, out, "|  0  1  2  3  4  5  6  7  8  9 |\n")
	assert.Contains(t, out, "| 90 91 92 93                   |\n")
	assert.Contains(t, out, "| Date:              0007-02-40 |\n")
	assertUniformWidth(t, out, 33)
}

func TestRenderNegativeYearHeader(t *testing.T) {
	for _, v := range []model.Variant{model.Lunisolar, model.Solar} {
		lo, _ := v.LastDayRange()
		p := Page{
			Variant: v,
			Date:    []string{"-01", "99", "02", "05", "12", "34"},
			Grid:    calendar.Layout(v, lo, 5),
		}
		out := renderPlain(t, p)
		assert.Contains(t, out, "-0199-02-05 |")
		assertUniformWidth(t, out, innerWidth(v)+2)
		assert.Equal(t, DateLabelWidth(v, false)-1, DateLabelWidth(v, true))
	}
	assert.Equal(t, 12, DateLabelWidth(model.Lunisolar, false))
	assert.Equal(t, 18, DateLabelWidth(model.Solar, false))
	assert.Equal(t, 17, TimeLabelWidth(model.Lunisolar))
	assert.Equal(t, 23, TimeLabelWidth(model.Solar))
}

func TestEmphasisKeepsAlignment(t *testing.T) {
	p := Page{
		Variant: model.Lunisolar,
		Date:    []string{"01", "15", "03", "12", "50", "00"},
		Grid:    calendar.Layout(model.Lunisolar, 29, 12),
	}
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, ColorAlways).Render(&buf, p))
	out := buf.String()

	assert.Contains(t, out, "\x1b[")
	assertUniformWidth(t, out, 27)
}

func TestFilterEvents(t *testing.T) {
	got := FilterEvents([]model.Event{
		{Timestamp: 30, Label: "Last Quarter Moon"},
		{Timestamp: 10, Label: "Current"},
		{Timestamp: 20, Label: "Moonrise"},
	})
	assert.Equal(t, []model.Event{
		{Timestamp: 20, Label: "Moonrise"},
		{Timestamp: 30, Label: "Last Quarter"},
	}, got)
}

func TestBuildPageErrors(t *testing.T) {
	f := geodatetest.New(30, 91)
	_, err := BuildPage(context.Background(), f, nil, Request{ShowEphemeris: true})
	require.Error(t, err)

	f.Err = assert.AnError
	_, err = BuildPage(context.Background(), f, f, Request{})
	require.ErrorIs(t, err, assert.AnError)
}

func assertUniformWidth(t *testing.T, out string, width int) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.Equal(t, width, lipgloss.Width(line), "line %q", line)
	}
}
