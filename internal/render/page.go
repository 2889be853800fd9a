package render

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"geocal/internal/calendar"
	"geocal/internal/geodate"
	appLog "geocal/internal/log"
	"geocal/internal/model"
)

// Request is one rendering job.
type Request struct {
	Variant       model.Variant
	Timestamp     int64
	Latitude      float64
	Longitude     float64
	ShowEphemeris bool
}

// EventLine is an ephemeris event ready for display.
type EventLine struct {
	Name string
	Time string
}

// Page holds everything the Renderer needs, already converted to text.
type Page struct {
	Variant model.Variant
	// Date is the formatted date, one field per geodate.DateSpec token.
	Date   []string
	Grid   calendar.Grid
	Events []EventLine
	// ShowEphemeris adds the events block, even when Events is empty.
	ShowEphemeris bool
}

// BuildPage formats the date, resolves the period length, lays out the grid
// and, when asked, collects the ephemeris events.
func BuildPage(ctx context.Context, conv geodate.Converter, eph geodate.Ephemeris, req Request) (Page, error) {
	spec := geodate.DateSpec(req.Variant)
	text, err := conv.Format(ctx, spec, req.Timestamp, req.Longitude)
	if err != nil {
		return Page{}, fmt.Errorf("render: format date: %w", err)
	}
	date := geodate.Split(text)
	if len(date) != len(geodate.Split(spec)) {
		return Page{}, fmt.Errorf("render: converter returned %d fields for %q", len(date), spec)
	}

	last, err := calendar.MonthLastDay(ctx, conv, req.Variant, req.Timestamp, req.Longitude)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Variant:       req.Variant,
		Date:          date,
		Grid:          calendar.Layout(req.Variant, last, calendar.ParseDay(date[geodate.FieldDay])),
		ShowEphemeris: req.ShowEphemeris,
	}

	if !req.ShowEphemeris {
		return page, nil
	}
	if eph == nil {
		return Page{}, errors.New("render: ephemeris requested but no source configured")
	}
	events, err := eph.Events(ctx, req.Timestamp, req.Longitude, req.Latitude)
	if err != nil {
		return Page{}, fmt.Errorf("render: ephemeris: %w", err)
	}
	for _, e := range FilterEvents(events) {
		t, err := conv.Format(ctx, geodate.EventTimeSpec, e.Timestamp, req.Longitude)
		if err != nil {
			return Page{}, fmt.Errorf("render: format event %q: %w", e.Label, err)
		}
		page.Events = append(page.Events, EventLine{Name: e.Label, Time: t})
	}
	appLog.Debug("page built", "variant", req.Variant.String(), "last_day", last, "events", len(page.Events))
	return page, nil
}

// FilterEvents drops the "Current" marker, shortens the quarter moon labels
// and orders events by time.
func FilterEvents(events []model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		switch e.Label {
		case "Current":
			continue
		case "First Quarter Moon":
			e.Label = "First Quarter"
		case "Last Quarter Moon":
			e.Label = "Last Quarter"
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}
