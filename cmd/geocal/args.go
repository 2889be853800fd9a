package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUsage is returned when required positionals are missing.
var ErrUsage = errors.New("usage: geocal [--ephem] [--solar] <latitude> <longitude> [<timestamp>]")

// cliArgs holds the parsed command line.
type cliArgs struct {
	latitude     float64
	longitude    float64
	timestamp    int64
	hasTimestamp bool
	ephem        bool
	solar        bool
}

// parseArgs reads the command line without the program name. Flags may appear
// anywhere; every "--" token is removed from the positionals, unknown ones
// silently. The timestamp is only taken when exactly three positionals are
// given.
func parseArgs(argv []string) (cliArgs, error) {
	var a cliArgs
	pos := make([]string, 0, len(argv))
	for _, arg := range argv {
		switch arg {
		case "--ephem":
			a.ephem = true
		case "--solar":
			a.solar = true
		}
		if strings.HasPrefix(arg, "--") {
			continue
		}
		pos = append(pos, arg)
	}

	if len(pos) < 2 {
		return a, ErrUsage
	}

	var err error
	if a.latitude, err = strconv.ParseFloat(pos[0], 64); err != nil {
		return a, fmt.Errorf("latitude %q: %w", pos[0], err)
	}
	if a.longitude, err = strconv.ParseFloat(pos[1], 64); err != nil {
		return a, fmt.Errorf("longitude %q: %w", pos[1], err)
	}
	if len(pos) == 3 {
		if a.timestamp, err = strconv.ParseInt(pos[2], 10, 64); err != nil {
			return a, fmt.Errorf("timestamp %q: %w", pos[2], err)
		}
		a.hasTimestamp = true
	}
	return a, nil
}
