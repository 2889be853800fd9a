package geodate

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	appLog "geocal/internal/log"
	"geocal/internal/model"
)

const defaultCommandTimeout = 5 * time.Second

// Placeholders substituted into CommandConfig argument templates.
const (
	ArgSpec = "{spec}"
	ArgTS   = "{ts}"
	ArgText = "{text}"
	ArgLon  = "{lon}"
	ArgLat  = "{lat}"
)

// CommandConfig describes how to invoke an external converter executable.
type CommandConfig struct {
	// Path is the executable name or path.
	Path string
	// FormatArgs must print the formatted text for {spec}, {ts}, {lon}.
	FormatArgs []string
	// ParseArgs must print the timestamp for {spec}, {text}, {lon}.
	ParseArgs []string
	// EphemArgs must print one "<timestamp> <label>" line per event for
	// {ts}, {lon}, {lat}.
	EphemArgs []string
	// Timeout bounds every single invocation. Zero means 5s.
	Timeout time.Duration
}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Command is a Converter and Ephemeris backed by an external process.
type Command struct {
	cfg CommandConfig
	run runFunc
}

// NewCommand constructs a Command adapter.
func NewCommand(cfg CommandConfig) *Command {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCommandTimeout
	}
	return &Command{cfg: cfg, run: runProcess}
}

func runProcess(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Format implements Converter.
func (c *Command) Format(ctx context.Context, spec string, ts int64, lon float64) (string, error) {
	out, err := c.invoke(ctx, c.cfg.FormatArgs, map[string]string{
		ArgSpec: spec,
		ArgTS:   strconv.FormatInt(ts, 10),
		ArgLon:  formatFloat(lon),
	})
	if err != nil {
		return "", fmt.Errorf("geodate: format %q: %w", spec, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Parse implements Converter.
func (c *Command) Parse(ctx context.Context, spec, text string, lon float64) (int64, error) {
	out, err := c.invoke(ctx, c.cfg.ParseArgs, map[string]string{
		ArgSpec: spec,
		ArgText: text,
		ArgLon:  formatFloat(lon),
	})
	if err != nil {
		return 0, fmt.Errorf("geodate: parse %q: %w", text, err)
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("geodate: parse %q: bad timestamp output: %w", text, err)
	}
	return ts, nil
}

// Events implements Ephemeris. Lines are returned in ascending timestamp
// order.
func (c *Command) Events(ctx context.Context, ts int64, lon, lat float64) ([]model.Event, error) {
	out, err := c.invoke(ctx, c.cfg.EphemArgs, map[string]string{
		ArgTS:  strconv.FormatInt(ts, 10),
		ArgLon: formatFloat(lon),
		ArgLat: formatFloat(lat),
	})
	if err != nil {
		return nil, fmt.Errorf("geodate: ephemeris: %w", err)
	}
	events, err := parseEventLines(out)
	if err != nil {
		return nil, fmt.Errorf("geodate: ephemeris: %w", err)
	}
	return events, nil
}

func (c *Command) invoke(ctx context.Context, tmpl []string, vars map[string]string) ([]byte, error) {
	if c.cfg.Path == "" {
		return nil, errors.New("converter command is not configured")
	}
	if len(tmpl) == 0 {
		return nil, errors.New("converter arguments are not configured")
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, k, v)
	}
	r := strings.NewReplacer(pairs...)
	args := make([]string, len(tmpl))
	for i, a := range tmpl {
		args[i] = r.Replace(a)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	out, err := c.run(ctx, c.cfg.Path, args...)
	appLog.Debug("converter call", "path", c.cfg.Path, "args", strings.Join(args, " "), "took", time.Since(start), "ok", err == nil)
	return out, err
}

func parseEventLines(out []byte) ([]model.Event, error) {
	var events []model.Event
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tsStr, label, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("malformed event line %q", line)
		}
		ts, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed event timestamp %q: %w", tsStr, err)
		}
		events = append(events, model.Event{Timestamp: ts, Label: strings.TrimSpace(label)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Timestamp < events[j].Timestamp })
	return events, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
