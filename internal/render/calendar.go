package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"calview/internal/grid"
	"calview/internal/view"
)

// calendarCellWidth splits the terminal width into seven cells separated
// by one space.
func calendarCellWidth(width int) int {
	cw := (width - (grid.DaysPerWeek - 1)) / grid.DaysPerWeek
	return min(max(cw, 4), 24)
}

// Calendar writes v as a month grid: a title, the weekday header, then per
// week one line of day numbers followed by card lines. A cell with more
// cards than lines ends in "+N more". An empty view prints its
// placeholder instead of the weeks.
func Calendar(w io.Writer, v view.CalendarView[string], opts Options) error {
	pal := newPalette(opts.Color)
	cw := calendarCellWidth(opts.width())
	total := cw*grid.DaysPerWeek + grid.DaysPerWeek - 1
	lines := opts.cardLines()

	var b strings.Builder
	b.WriteString(pal.title(center(v.Label, total)))
	b.WriteByte('\n')

	cells := make([]string, grid.DaysPerWeek)
	for i, h := range v.Headers {
		cells[i] = pal.weekday(h.Weekday)(fit(h.Label, cw))
	}
	writeLine(&b, cells, " ")

	if v.Empty {
		b.WriteString(pal.muted(center(v.Placeholder, total)))
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, week := range v.Weeks {
		for c, cell := range week {
			if cell.IsPadding {
				cells[c] = strings.Repeat(" ", cw)
				continue
			}
			s := fitRight(strconv.Itoa(cell.Day), min(cw, 3))
			s = fit(s, cw)
			switch {
			case cell.IsToday:
				s = pal.today(s)
			case cell.IsWeekend:
				s = pal.weekday(c)(s)
			}
			cells[c] = s
		}
		writeLine(&b, cells, " ")

		for l := 0; l < lines; l++ {
			for c, cell := range week {
				text, more := cardLine(cell, l, lines)
				s := fit(text, cw)
				if more {
					s = pal.muted(s)
				}
				cells[c] = s
			}
			writeLine(&b, cells, " ")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// cardLine returns the text for card line l of cell and whether it is the
// overflow marker.
func cardLine(cell view.CellView[string], l, lines int) (string, bool) {
	if cell.Count > lines && l == lines-1 {
		return fmt.Sprintf("+%d more", cell.Count-l), true
	}
	if l < len(cell.Cards) {
		return cell.Cards[l].Content, false
	}
	return "", false
}
