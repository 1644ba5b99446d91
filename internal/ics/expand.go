package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	"calview/internal/dates"
	appLog "calview/internal/log"
	"calview/internal/model"
)

const defaultMaxOccurrencesPerEvent = 500

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// Location is the display timezone occurrences are converted to before
	// their dates are taken. nil means time.Local.
	Location *time.Location

	// Period is the month occurrences must touch.
	Period dates.Period

	// Kind is stamped on every produced item; empty means event.
	Kind model.Kind

	// MaxOccurrencesPerEvent caps a single series. Zero means
	// defaultMaxOccurrencesPerEvent.
	MaxOccurrencesPerEvent int
}

// ExpandResult is the occurrences of a month plus the UIDs whose series hit
// the cap.
type ExpandResult struct {
	Items           []model.Item
	TruncatedEvents []string
}

// Expand turns parsed VEVENTs into one model.Item per occurrence touching
// cfg.Period. It handles single events, RRULE series, EXDATE removals,
// RECURRENCE-ID overrides and all-day semantics (DTEND exclusive).
func Expand(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult
	if err := cfg.Period.Validate(); err != nil {
		return result, err
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Kind == "" {
		cfg.Kind = model.KindEvent
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	// Group base events and overrides by UID, keeping first-seen order so
	// the output is deterministic.
	var order []string
	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
			continue
		}
		if _, seen := baseByUID[ev.UID]; !seen {
			order = append(order, ev.UID)
		}
		baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
	}

	for _, uid := range order {
		truncated := false
		for _, ev := range baseByUID[uid] {
			items, hitCap := expandEvent(ev, overridesByUID[uid], cfg)
			truncated = truncated || hitCap
			result.Items = append(result.Items, items...)
		}
		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, uid)
			appLog.Error("ics expand: truncated occurrences",
				errors.New("max occurrences reached"),
				"uid", uid,
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
	}
	return result, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Item, bool) {
	if ev.RawRRule == "" {
		return expandSingleEvent(ev, overrides, cfg), false
	}
	return expandRecurringEvent(ev, overrides, cfg)
}

func window(cfg ExpandConfig) (time.Time, time.Time) {
	start := cfg.Period.Start().Time(cfg.Location)
	end := cfg.Period.End().AddDays(1).Time(cfg.Location)
	return start, end
}

func expandSingleEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []model.Item {
	if o, ok := findOverrideForStart(overrides, ev.Start); ok {
		ev = o
	}
	rangeStart, rangeEnd := window(cfg)
	if !overlaps(ev.Start, ev.End, rangeStart, rangeEnd) {
		return nil
	}
	return []model.Item{makeItem(ev, ev.Start, ev.End, cfg)}
}

func expandRecurringEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Item, bool) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("ics expand: bad RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	dur := ev.End.Sub(ev.Start)
	if dur < 0 {
		dur = 0
	}

	// Occurrences that start before the month but run into it still count,
	// so widen the lower bound by the event duration.
	rangeStart, rangeEnd := window(cfg)
	occStarts := set.Between(
		rangeStart.Add(-dur).In(ev.Start.Location()),
		rangeEnd.In(ev.Start.Location()),
		true,
	)

	hitCap := false
	if len(occStarts) > cfg.MaxOccurrencesPerEvent {
		occStarts = occStarts[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	out := make([]model.Item, 0, len(occStarts))
	for _, occStart := range occStarts {
		occEnd := occStart.Add(dur)
		base := ev
		if o, ok := findOverrideForStart(overrides, occStart); ok {
			base, occStart, occEnd = o, o.Start, o.End
		}
		if !overlaps(occStart, occEnd, rangeStart, rangeEnd) {
			continue
		}
		out = append(out, makeItem(base, occStart, occEnd, cfg))
	}
	return out, hitCap
}

func findOverrideForStart(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && ov.Recurrence.Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

// makeItem converts one occurrence into an Item. Single-day occurrences
// carry only Date; longer ones carry Start/End as an inclusive range.
func makeItem(ev ParsedEvent, start, end time.Time, cfg ExpandConfig) model.Item {
	var startDate, endDate dates.Date
	if ev.AllDay {
		// All-day dates are floating; take them as written.
		startDate = dates.FromTime(start)
		endDate = dates.FromTime(end).AddDays(-1)
	} else {
		startDate = dates.FromTime(start.In(cfg.Location))
		endLocal := end.In(cfg.Location)
		endDate = dates.FromTime(endLocal)
		// An event ending exactly at midnight does not occupy that day.
		if end.After(start) && endLocal.Equal(endDate.Time(cfg.Location)) {
			endDate = endDate.AddDays(-1)
		}
	}
	if endDate.Before(startDate) {
		endDate = startDate
	}

	it := model.Item{
		Key:         ev.UID + "@" + startDate.String(),
		Kind:        cfg.Kind,
		Title:       ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		SourceID:    ev.SourceID,
		Date:        startDate,
		Active:      true,
	}
	if endDate != startDate {
		it.Start = startDate
		it.End = endDate
	}
	return it
}

// overlaps reports whether [aStart, aEnd] touches [bStart, bEnd).
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Before(aStart) {
		aEnd = aStart
	}
	if !aStart.Before(bEnd) {
		return false
	}
	if aEnd.Before(bStart) {
		return false
	}
	// A zero-length or midnight-ending event that ends exactly at the
	// window start belongs to the previous month.
	if aEnd.Equal(bStart) && aEnd.After(aStart) {
		return false
	}
	return true
}
