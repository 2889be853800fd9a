package calendar

import (
	"strconv"

	"geocal/internal/model"
)

// lunisolarRowStarts are the first day indexes of the four lunisolar rows.
// The rows starting at 0 and 15 hold seven days followed by a leap gap.
var lunisolarRowStarts = []int{0, 7, 15, 22}

const lunisolarCells = 30

// Cell is one day slot of the grid.
type Cell struct {
	// Day is the 0-indexed day, meaningless when Blank is set.
	Day int
	// Blank marks a padding cell past the end of the period.
	Blank bool
	// Emphasize marks the current day. Styling is up to the renderer.
	Emphasize bool
}

// Row is a line of cells. Gap asks for a one-cell visual blank after the
// last cell, used before the lunisolar leap rows.
type Row struct {
	Cells []Cell
	Gap   bool
}

// Grid is a laid out month or season.
type Grid struct {
	Variant model.Variant
	Rows    []Row
}

// Width is the number of cells in a full row.
func (g Grid) Width() int { return g.Variant.RowWidth() }

// Concrete counts the non-blank cells.
func (g Grid) Concrete() int {
	n := 0
	for _, r := range g.Rows {
		for _, c := range r.Cells {
			if !c.Blank {
				n++
			}
		}
	}
	return n
}

// BreakIndexes returns the first day index of every row.
func (g Grid) BreakIndexes() []int {
	out := make([]int, 0, len(g.Rows))
	for _, r := range g.Rows {
		if len(r.Cells) > 0 {
			out = append(out, r.Cells[0].Day)
		}
	}
	return out
}

// Layout arranges the days 0..lastDay of a period into rows and marks
// currentDay. A currentDay outside [0, lastDay] marks nothing.
func Layout(v model.Variant, lastDay, currentDay int) Grid {
	if v == model.Solar {
		return layoutSolar(lastDay, currentDay)
	}
	return layoutLunisolar(lastDay, currentDay)
}

func layoutLunisolar(lastDay, currentDay int) Grid {
	g := Grid{Variant: model.Lunisolar}
	for r, start := range lunisolarRowStarts {
		end := lunisolarCells
		if r+1 < len(lunisolarRowStarts) {
			end = lunisolarRowStarts[r+1]
		}
		row := Row{Gap: end-start < model.Lunisolar.RowWidth()}
		for i := start; i < end; i++ {
			row.Cells = append(row.Cells, newCell(i, lastDay, currentDay))
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func layoutSolar(lastDay, currentDay int) Grid {
	g := Grid{Variant: model.Solar}
	width := model.Solar.RowWidth()

	// Pad the final row out to full width.
	total := lastDay + 1
	if rem := total % width; rem != 0 {
		total += width - rem
	}
	for start := 0; start < total; start += width {
		var row Row
		for i := start; i < start+width; i++ {
			row.Cells = append(row.Cells, newCell(i, lastDay, currentDay))
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func newCell(i, lastDay, currentDay int) Cell {
	if i > lastDay {
		return Cell{Day: i, Blank: true}
	}
	return Cell{Day: i, Emphasize: i == currentDay}
}

// ParseDay converts the day field of a formatted date into an index, or -1
// when the field is not a number.
func ParseDay(field string) int {
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
