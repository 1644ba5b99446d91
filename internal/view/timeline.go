package view

import (
	"calview/internal/dates"
	"calview/internal/timeline"
)

const (
	DefaultCellWidth = 40
	// DefaultBarInset is the gap kept on each side of a bar inside its
	// first and last cells.
	DefaultBarInset = 4
)

// Geometry is a bar's extent in day units and in pixels.
type Geometry struct {
	timeline.Span
	Left  int
	Width int
	// InsetLeft and InsetWidth are Left/Width shrunk by the bar inset on
	// both sides, never narrower than 1.
	InsetLeft  int
	InsetWidth int
	// RoundedStart is false when the range continues before the window;
	// renderers draw a square edge there.
	RoundedStart bool
	RoundedEnd   bool
}

// TimelineOptions configures Timeline.
type TimelineOptions[T any, R any] struct {
	Common[T, R]
	// Label renders the row title.
	Label func(T) R
	// Bar renders a custom bar; when nil, Row.Custom is false and the
	// renderer draws its default bar from Geometry.
	Bar       func(T, Geometry) R
	CellWidth int
	// BarInset of 0 means DefaultBarInset; a negative value disables it.
	BarInset int
}

// Row is one display-ready timeline row.
type Row[R any] struct {
	Key      string
	Index    int
	Striped  bool
	Label    R
	Bar      R
	Custom   bool
	Geometry Geometry
	Select   func() `json:"-"`
}

// TimelineView is the display-ready month timeline.
type TimelineView[R any] struct {
	Period      dates.Period
	Label       string
	DaysInMonth int
	CellWidth   int
	// TotalWidth is the pixel width of the day area.
	TotalWidth int
	Days       []timeline.Day
	Rows       []Row[R]
	// TodayColumn is today's day of month or 0; TodayLeft is its pixel
	// offset or -1.
	TodayColumn int
	TodayLeft   int
	Empty       bool
	Placeholder R
}

// Timeline assembles res into a TimelineView.
func Timeline[T any, R any](res timeline.Result[T], opts TimelineOptions[T, R]) TimelineView[R] {
	cw := opts.CellWidth
	if cw <= 0 {
		cw = DefaultCellWidth
	}
	inset := opts.BarInset
	if inset < 0 {
		inset = 0
	} else if inset == 0 {
		inset = DefaultBarInset
	}

	v := TimelineView[R]{
		Period:      res.Period,
		Label:       opts.label(res.Period),
		DaysInMonth: res.DaysInMonth,
		CellWidth:   cw,
		TotalWidth:  res.DaysInMonth * cw,
		Days:        res.Days,
		Rows:        make([]Row[R], len(res.Bars)),
		TodayColumn: res.TodayColumn,
		TodayLeft:   -1,
		Empty:       res.Empty(),
	}
	if v.Empty {
		v.Placeholder = opts.Placeholder
	}
	if res.TodayColumn > 0 {
		v.TodayLeft = (res.TodayColumn - 1) * cw
	}

	for i, bar := range res.Bars {
		geo := Place(bar.Span, cw, inset)
		row := Row[R]{
			Key:      opts.key(bar.Item, i),
			Index:    i,
			Striped:  i%2 == 1,
			Geometry: geo,
			Select:   opts.selector(bar.Item),
		}
		if opts.Label != nil {
			row.Label = opts.Label(bar.Item)
		}
		if opts.Bar != nil {
			row.Bar = opts.Bar(bar.Item, geo)
			row.Custom = true
		}
		v.Rows[i] = row
	}
	return v
}

// Place converts a day-unit span to pixels for cellWidth, keeping inset
// pixels free on each side.
func Place(span timeline.Span, cellWidth, inset int) Geometry {
	g := Geometry{
		Span:         span,
		Left:         span.LeftOffset * cellWidth,
		Width:        span.Width * cellWidth,
		RoundedStart: !span.ContinuesBefore,
		RoundedEnd:   !span.ContinuesAfter,
	}
	g.InsetLeft = g.Left + inset
	g.InsetWidth = max(g.Width-2*inset, 1)
	return g
}
