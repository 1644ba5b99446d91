package web

import (
	"errors"
	"net/http"

	"calview/internal/dataset"
	"calview/internal/dates"
	"calview/internal/grid"
	appLog "calview/internal/log"
	"calview/internal/model"
	"calview/internal/timeline"
	"calview/internal/view"
)

const placeholderText = "Nothing scheduled this month"

// itemDTO is the JSON form of an item inside a card or row.
type itemDTO struct {
	Key      string     `json:"key"`
	Kind     model.Kind `json:"kind"`
	Title    string     `json:"title"`
	Location string     `json:"location,omitempty"`
	Owner    string     `json:"owner,omitempty"`
	SourceID string     `json:"source_id"`
	Start    dates.Date `json:"start"`
	End      dates.Date `json:"end"`
}

func toDTO(it model.Item) itemDTO {
	return itemDTO{
		Key:      it.Key,
		Kind:     it.Kind,
		Title:    it.Title,
		Location: it.Location,
		Owner:    it.Owner,
		SourceID: it.SourceID,
		Start:    model.StartOf(it),
		End:      model.EndOf(it),
	}
}

type headerDTO struct {
	Label     string `json:"label"`
	Weekday   int    `json:"weekday"`
	IsWeekend bool   `json:"is_weekend"`
}

type cellDTO struct {
	Day       int        `json:"day"`
	Date      dates.Date `json:"date"`
	IsPadding bool       `json:"is_padding"`
	IsToday   bool       `json:"is_today"`
	IsWeekend bool       `json:"is_weekend"`
	Count     int        `json:"count"`
	Items     []itemDTO  `json:"items"`
}

// calendarResponse is the JSON response shape for /api/calendar.
type calendarResponse struct {
	Month       string      `json:"month"`
	Label       string      `json:"label"`
	Version     uint64      `json:"version"`
	Headers     []headerDTO `json:"headers"`
	Weeks       [][]cellDTO `json:"weeks"`
	TodayRow    int         `json:"today_row"`
	TodayCol    int         `json:"today_col"`
	Empty       bool        `json:"empty"`
	Placeholder string      `json:"placeholder,omitempty"`
}

type dayDTO struct {
	Day       int        `json:"day"`
	Date      dates.Date `json:"date"`
	Weekday   int        `json:"weekday"`
	IsWeekend bool       `json:"is_weekend"`
	IsToday   bool       `json:"is_today"`
}

type geometryDTO struct {
	LeftOffset      int  `json:"left_offset"`
	Width           int  `json:"width"`
	ContinuesBefore bool `json:"continues_before"`
	ContinuesAfter  bool `json:"continues_after"`
	LeftPx          int  `json:"left_px"`
	WidthPx         int  `json:"width_px"`
	InsetLeftPx     int  `json:"inset_left_px"`
	InsetWidthPx    int  `json:"inset_width_px"`
	RoundedStart    bool `json:"rounded_start"`
	RoundedEnd      bool `json:"rounded_end"`
}

type rowDTO struct {
	Key      string      `json:"key"`
	Index    int         `json:"index"`
	Striped  bool        `json:"striped"`
	Item     itemDTO     `json:"item"`
	Geometry geometryDTO `json:"geometry"`
}

// timelineResponse is the JSON response shape for /api/timeline.
type timelineResponse struct {
	Month       string   `json:"month"`
	Label       string   `json:"label"`
	Version     uint64   `json:"version"`
	DaysInMonth int      `json:"days_in_month"`
	CellWidth   int      `json:"cell_width"`
	TotalWidth  int      `json:"total_width"`
	Days        []dayDTO `json:"days"`
	Rows        []rowDTO `json:"rows"`
	TodayColumn int      `json:"today_column"`
	TodayLeft   int      `json:"today_left"`
	Empty       bool     `json:"empty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Skipped     []string `json:"skipped,omitempty"`
}

type reloadResponse struct {
	Version uint64        `json:"version"`
	Stats   dataset.Stats `json:"stats"`
	Error   string        `json:"error,omitempty"`
}

// viewRequest is the parsed query of a view endpoint.
type viewRequest struct {
	period dates.Period
	kind   model.Kind
}

// parseViewRequest reads ?month=YYYY-MM&kind=. A missing month means the
// current one; a missing kind means every kind.
func (s *Server) parseViewRequest(r *http.Request, today dates.Date) (viewRequest, error) {
	q := r.URL.Query()
	req := viewRequest{period: dates.PeriodOf(today)}
	if m := q.Get("month"); m != "" {
		p, err := dates.ParsePeriod(m)
		if err != nil {
			return req, err
		}
		req.period = p
	}
	if k := q.Get("kind"); k != "" {
		kind, err := model.ParseKind(k)
		if err != nil {
			return req, err
		}
		req.kind = kind
	}
	return req, nil
}

// handleCalendar returns the month grid.
//
// GET /api/calendar?month=2025-02&kind=event
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	today := s.today()
	req, err := s.parseViewRequest(r, today)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := memoKey{view: "calendar", kind: req.kind, period: req.period, version: s.store.Version(), today: today}
	if resp, ok := s.memoGet(key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	items, err := s.store.Items(req.period)
	if err != nil {
		s.writeBuildError(w, err)
		return
	}
	g, err := grid.BuildAt(req.period, model.FilterKind(items, req.kind), model.DateOf, today)
	if err != nil {
		s.writeBuildError(w, err)
		return
	}
	v := view.Calendar(g, view.CalendarOptions[model.Item, itemDTO]{
		Common: view.Common[model.Item, itemDTO]{
			Key:         model.KeyOf,
			Placeholder: itemDTO{Title: placeholderText},
		},
		Card:          func(it model.Item, _ int) itemDTO { return toDTO(it) },
		WeekdayLabels: s.cfg.WeekLabels,
	})

	resp := calendarResponse{
		Month:    req.period.String(),
		Label:    v.Label,
		Version:  key.version,
		Headers:  make([]headerDTO, len(v.Headers)),
		Weeks:    make([][]cellDTO, len(v.Weeks)),
		TodayRow: v.TodayRow,
		TodayCol: v.TodayCol,
		Empty:    v.Empty,
	}
	if v.Empty {
		resp.Placeholder = v.Placeholder.Title
	}
	for i, h := range v.Headers {
		resp.Headers[i] = headerDTO{Label: h.Label, Weekday: h.Weekday, IsWeekend: h.IsWeekend}
	}
	for row, week := range v.Weeks {
		cells := make([]cellDTO, len(week))
		for c, cell := range week {
			dto := cellDTO{
				Day:       cell.Day,
				Date:      cell.Date,
				IsPadding: cell.IsPadding,
				IsToday:   cell.IsToday,
				IsWeekend: cell.IsWeekend,
				Count:     cell.Count,
				Items:     make([]itemDTO, len(cell.Cards)),
			}
			for i, card := range cell.Cards {
				dto.Items[i] = card.Content
			}
			cells[c] = dto
		}
		resp.Weeks[row] = cells
	}

	appLog.Debug("api calendar built", "month", resp.Month, "kind", string(req.kind), "placed", g.Placed, "version", key.version)
	s.memoPut(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleTimeline returns the month timeline.
//
// GET /api/timeline?month=2025-02&kind=goal
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	today := s.today()
	req, err := s.parseViewRequest(r, today)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := memoKey{view: "timeline", kind: req.kind, period: req.period, version: s.store.Version(), today: today}
	if resp, ok := s.memoGet(key); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	items, err := s.store.Items(req.period)
	if err != nil {
		s.writeBuildError(w, err)
		return
	}
	res, err := timeline.LayoutAt(req.period, model.FilterKind(items, req.kind), model.StartOf, model.EndOf, today)
	if err != nil {
		s.writeBuildError(w, err)
		return
	}
	v := view.Timeline(res, view.TimelineOptions[model.Item, itemDTO]{
		Common: view.Common[model.Item, itemDTO]{
			Key:         model.KeyOf,
			Placeholder: itemDTO{Title: placeholderText},
		},
		Label:     toDTO,
		CellWidth: s.cfg.CellWidth,
	})

	resp := timelineResponse{
		Month:       req.period.String(),
		Label:       v.Label,
		Version:     key.version,
		DaysInMonth: v.DaysInMonth,
		CellWidth:   v.CellWidth,
		TotalWidth:  v.TotalWidth,
		Days:        make([]dayDTO, len(v.Days)),
		Rows:        make([]rowDTO, len(v.Rows)),
		TodayColumn: v.TodayColumn,
		TodayLeft:   v.TodayLeft,
		Empty:       v.Empty,
		Skipped:     errorStrings(res.Skipped),
	}
	if v.Empty {
		resp.Placeholder = v.Placeholder.Title
	}
	for i, d := range v.Days {
		resp.Days[i] = dayDTO{Day: d.Day, Date: d.Date, Weekday: d.Weekday, IsWeekend: d.IsWeekend, IsToday: d.IsToday}
	}
	for i, row := range v.Rows {
		g := row.Geometry
		resp.Rows[i] = rowDTO{
			Key:     row.Key,
			Index:   row.Index,
			Striped: row.Striped,
			Item:    row.Label,
			Geometry: geometryDTO{
				LeftOffset:      g.Span.LeftOffset,
				Width:           g.Span.Width,
				ContinuesBefore: g.Span.ContinuesBefore,
				ContinuesAfter:  g.Span.ContinuesAfter,
				LeftPx:          g.Left,
				WidthPx:         g.Width,
				InsetLeftPx:     g.InsetLeft,
				InsetWidthPx:    g.InsetWidth,
				RoundedStart:    g.RoundedStart,
				RoundedEnd:      g.RoundedEnd,
			},
		}
	}

	appLog.Debug("api timeline built", "month", resp.Month, "kind", string(req.kind), "rows", len(resp.Rows), "version", key.version)
	s.memoPut(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleReload reloads every source.
//
// POST /api/reload
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	err := s.store.Reload(r.Context())
	resp := reloadResponse{Version: s.store.Version(), Stats: s.store.Stats()}
	if err != nil {
		// Partial failures still produce a new snapshot.
		appLog.Error("api reload: one or more sources failed", err)
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStatus reports the current snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) writeBuildError(w http.ResponseWriter, err error) {
	var invalid *dates.InvalidPeriodError
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	appLog.Error("api view build failed", err)
	writeError(w, http.StatusInternalServerError, "failed to build view")
}

// errorStrings flattens a multi-error into its messages.
func errorStrings(err error) []string {
	if err == nil {
		return nil
	}
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		errs := u.Unwrap()
		out := make([]string, len(errs))
		for i, e := range errs {
			out[i] = e.Error()
		}
		return out
	}
	return []string{err.Error()}
}
