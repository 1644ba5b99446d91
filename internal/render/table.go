package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"

	"calview/internal/view"
)

const tableMaxColWidth = 60

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.MaxColWidth = tableMaxColWidth
	tbl.Wrap = true
	return tbl
}

// CalendarTable lists the days of v that have items, one row per day.
func CalendarTable(w io.Writer, v view.CalendarView[string]) error {
	if v.Empty {
		_, err := fmt.Fprintf(w, "%s\n%s\n", v.Label, v.Placeholder)
		return err
	}
	tbl := newTable()
	tbl.AddRow("DATE", "DAY", "COUNT", "ITEMS")
	for _, week := range v.Weeks {
		for c, cell := range week {
			if cell.IsPadding || cell.Count == 0 {
				continue
			}
			titles := make([]string, 0, len(cell.Cards))
			for _, card := range cell.Cards {
				titles = append(titles, card.Content)
			}
			day := v.Headers[c].Label
			if cell.IsToday {
				day += " *"
			}
			tbl.AddRow(cell.Date.String(), day, cell.Count, strings.Join(titles, ", "))
		}
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

// TimelineTable lists the rows of v with their clipped day range.
func TimelineTable(w io.Writer, v view.TimelineView[string]) error {
	if v.Empty {
		_, err := fmt.Fprintf(w, "%s\n%s\n", v.Label, v.Placeholder)
		return err
	}
	tbl := newTable()
	tbl.AddRow("ITEM", "FROM", "TO", "DAYS", "CONTINUES")
	for _, row := range v.Rows {
		span := row.Geometry.Span
		from := span.LeftOffset + 1
		tbl.AddRow(row.Label, from, from+span.Width-1, span.Width, continues(span.ContinuesBefore, span.ContinuesAfter))
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

func continues(before, after bool) string {
	switch {
	case before && after:
		return "both"
	case before:
		return "before"
	case after:
		return "after"
	default:
		return "-"
	}
}
