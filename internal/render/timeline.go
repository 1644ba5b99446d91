package render

import (
	"io"
	"strconv"
	"strings"

	"calview/internal/view"
)

// Glyphs of the text timeline.
const (
	glyphBar      = "="
	glyphBefore   = "<"
	glyphAfter    = ">"
	glyphEmpty    = "."
	glyphTodayCol = "|"
)

// dayWidth is the number of columns per day, between 1 and 3.
func dayWidth(width, labelWidth, days int) int {
	if days <= 0 {
		return 1
	}
	return min(max((width-labelWidth-1)/days, 1), 3)
}

// Timeline writes v as a label column followed by one cell per day. Bars
// are drawn with "="; a range that continues past the window starts with
// "<" or ends with ">". Today's column is marked with "|" outside bars.
func Timeline(w io.Writer, v view.TimelineView[string], opts Options) error {
	pal := newPalette(opts.Color)
	lw := opts.labelWidth()
	dw := dayWidth(opts.width(), lw, v.DaysInMonth)

	var b strings.Builder
	b.WriteString(pal.title(fit(v.Label, lw)))
	b.WriteByte(' ')
	for _, d := range v.Days {
		num := strconv.Itoa(d.Day)
		if dw == 1 {
			num = strconv.Itoa(d.Day % 10)
		}
		s := fitRight(num, dw)
		switch {
		case d.IsToday:
			s = pal.today(s)
		case d.IsWeekend:
			s = pal.weekday(int(d.Weekday))(s)
		}
		b.WriteString(s)
	}
	b.WriteByte('\n')

	if v.Empty {
		b.WriteString(pal.muted(v.Placeholder))
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, row := range v.Rows {
		label := fit(row.Label, lw)
		if row.Striped {
			label = pal.muted(label)
		}
		b.WriteString(label)
		b.WriteByte(' ')
		b.WriteString(barLine(row.Geometry, v.DaysInMonth, v.TodayColumn, dw, pal))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func barLine(g view.Geometry, days, today, dw int, pal palette) string {
	first := g.Span.LeftOffset + 1
	last := g.Span.LeftOffset + g.Span.Width

	var b strings.Builder
	for day := 1; day <= days; day++ {
		if day < first || day > last {
			mark := glyphEmpty
			if day == today {
				mark = glyphTodayCol
			}
			b.WriteString(strings.Repeat(" ", dw-1) + mark)
			continue
		}
		cell := strings.Repeat(glyphBar, dw)
		switch {
		case day == first && g.Span.ContinuesBefore:
			cell = glyphBefore + strings.Repeat(glyphBar, dw-1)
		case day == last && g.Span.ContinuesAfter:
			cell = strings.Repeat(glyphBar, dw-1) + glyphAfter
		}
		b.WriteString(pal.bar(cell))
	}
	return b.String()
}
