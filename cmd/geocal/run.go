package main

import (
	"context"
	"io"
	"time"

	"geocal/internal/geodate"
	"geocal/internal/model"
	"geocal/internal/render"
)

// job renders one calendar page per call.
type job struct {
	args     cliArgs
	conv     geodate.Converter
	eph      geodate.Ephemeris
	renderer *render.Renderer
	out      io.Writer
	now      func() time.Time
}

func (j *job) request() render.Request {
	req := render.Request{
		Variant:       model.Lunisolar,
		Latitude:      j.args.latitude,
		Longitude:     j.args.longitude,
		ShowEphemeris: j.args.ephem,
	}
	if j.args.solar {
		req.Variant = model.Solar
	}
	if j.args.hasTimestamp {
		req.Timestamp = j.args.timestamp
	} else {
		req.Timestamp = j.now().Unix()
	}
	return req
}

func (j *job) run(ctx context.Context) error {
	page, err := render.BuildPage(ctx, j.conv, j.eph, j.request())
	if err != nil {
		return err
	}
	return j.renderer.Render(j.out, page)
}
