// Package render turns a laid out geodate period into bordered text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"geocal/internal/calendar"
	"geocal/internal/geodate"
	"geocal/internal/model"
)

const (
	cellWidth = 3
	// dateWidth is the display width of "hhyy-pp-dd" for a non-negative year.
	dateWidth = 10
	// timeWidth is the display width of "cc:bb".
	timeWidth = 5
)

const lunisolarHeader = "So Me Ve Te Ma Ju Sa Lu"

// ColorMode selects when styling escapes are written.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Renderer writes pages as bordered text.
type Renderer struct {
	label    lipgloss.Style
	emphasis lipgloss.Style
}

// NewRenderer builds a Renderer for w. In ColorAuto mode the color profile is
// detected from w, so pipes and files get plain text.
func NewRenderer(w io.Writer, mode ColorMode) *Renderer {
	lr := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		lr.SetColorProfile(termenv.ANSI)
	case ColorNever:
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		label:    lr.NewStyle().Bold(true),
		emphasis: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// innerWidth is the number of columns between the two border characters.
func innerWidth(v model.Variant) int {
	return cellWidth*v.RowWidth() + 1
}

// DateLabelWidth is the column reserved for the "Date:" label. A negative
// year takes one more column for its sign, so the label column gives it up.
func DateLabelWidth(v model.Variant, negative bool) int {
	w := innerWidth(v) - 3 - dateWidth
	if negative {
		w--
	}
	return w
}

// TimeLabelWidth is the column reserved for "Time:" and event names.
func TimeLabelWidth(v model.Variant) int {
	return innerWidth(v) - 3 - timeWidth
}

// Render writes p to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	bw := bufio.NewWriter(w)
	line := "+" + strings.Repeat("-", innerWidth(p.Variant)) + "+"

	bw.WriteString(line + "\n")

	date := field(p.Date, geodate.FieldEra) + field(p.Date, geodate.FieldYear) + "-" +
		field(p.Date, geodate.FieldPeriod) + "-" + field(p.Date, geodate.FieldDay)
	negative := strings.HasPrefix(date, "-")
	bw.WriteString(r.labelled("Date:", DateLabelWidth(p.Variant, negative), date))
	bw.WriteString(line + "\n")

	bw.WriteString("| " + r.label.Render(columnHeader(p.Variant)) + " |\n")
	for _, row := range p.Grid.Rows {
		bw.WriteString(r.row(row))
	}
	bw.WriteString(line + "\n")

	clock := field(p.Date, geodate.FieldHour) + ":" + field(p.Date, geodate.FieldMinute)
	bw.WriteString(r.labelled("Time:", TimeLabelWidth(p.Variant), clock))
	bw.WriteString(line + "\n")

	if p.ShowEphemeris {
		for _, e := range p.Events {
			label := runewidth.FillRight(e.Name+":", TimeLabelWidth(p.Variant))
			bw.WriteString("| " + label + " " + e.Time + " |\n")
		}
		bw.WriteString(line + "\n")
	}

	return bw.Flush()
}

// labelled pads the plain label before styling so escapes never count
// towards the column width.
func (r *Renderer) labelled(label string, width int, value string) string {
	padded := runewidth.FillRight(label, width)
	return "| " + r.label.Render(label) + padded[len(label):] + " " + r.emphasis.Render(value) + " |\n"
}

func (r *Renderer) row(row calendar.Row) string {
	var b strings.Builder
	b.WriteString("| ")
	for _, c := range row.Cells {
		switch {
		case c.Blank:
			b.WriteString(strings.Repeat(" ", cellWidth))
		case c.Emphasize:
			b.WriteString(r.emphasis.Render(dayText(c.Day)) + " ")
		default:
			b.WriteString(dayText(c.Day) + " ")
		}
	}
	if row.Gap {
		b.WriteString(strings.Repeat(" ", cellWidth))
	}
	b.WriteString("|\n")
	return b.String()
}

func columnHeader(v model.Variant) string {
	if v != model.Solar {
		return lunisolarHeader
	}
	cols := make([]string, v.RowWidth())
	for i := range cols {
		cols[i] = fmt.Sprintf("%*d", cellWidth-1, i)
	}
	return strings.Join(cols, " ")
}

func dayText(day int) string {
	return fmt.Sprintf("%02d", day)
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
