package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/klokku/weekview/pkg/layout"
	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
)

var ErrInvalidICS = errors.New("invalid ICS calendar")

// icsEvent is a parsed VEVENT. Recurring events keep their rule and are expanded per day.
type icsEvent struct {
	uid      string
	summary  string
	location string
	start    time.Time
	end      time.Time
	allDay   bool
	rule     *rrule.RRule
	exDates  []time.Time
	// recurrenceID is set on overrides of a single recurring instance.
	recurrenceID *time.Time
}

func (e icsEvent) duration() time.Duration {
	return e.end.Sub(e.start)
}

// days is the length of an all-day event in calendar days, tolerant of DST shifts.
func (e icsEvent) days() int {
	return max(1, int((e.duration()+12*time.Hour)/(24*time.Hour)))
}

// ICSManager serves events from an iCalendar file. RRULE recurrences with EXDATE and
// RECURRENCE-ID overrides are expanded for every requested day.
type ICSManager struct {
	path string
	loc  *time.Location

	mu        sync.RWMutex
	events    []icsEvent
	overrides map[string][]icsEvent
}

func NewICSManager(path string, loc *time.Location) (*ICSManager, error) {
	if loc == nil {
		loc = time.Local
	}
	m := &ICSManager{path: path, loc: loc}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload re-reads the calendar file. On error the previously loaded events are kept.
func (m *ICSManager) Reload() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read ICS file %s: %w", m.path, err)
	}
	events, err := parseICS(data, m.loc)
	if err != nil {
		return fmt.Errorf("%s: %w", m.path, err)
	}

	base := make([]icsEvent, 0, len(events))
	overrides := make(map[string][]icsEvent)
	for _, e := range events {
		if e.recurrenceID != nil {
			overrides[e.uid] = append(overrides[e.uid], e)
		} else {
			base = append(base, e)
		}
	}

	m.mu.Lock()
	m.events = base
	m.overrides = overrides
	m.mu.Unlock()
	log.Infof("Loaded %d events (%d overrides) from %s", len(base), len(events)-len(base), m.path)
	return nil
}

func parseICS(data []byte, loc *time.Location) ([]icsEvent, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidICS)
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidICS, err)
	}

	events := make([]icsEvent, 0)
	for _, ve := range cal.Events() {
		e, err := parseVEvent(ve, loc)
		if err != nil {
			log.Warnf("skipping VEVENT: %v", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (icsEvent, error) {
	var out icsEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.uid = uidProp.Value
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.location = p.Value
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, fmt.Errorf("%s: missing DTSTART", out.uid)
	}
	out.allDay = isDateValue(dtStart)

	if out.allDay {
		start, err := time.ParseInLocation("20060102", strings.TrimSpace(dtStart.Value), loc)
		if err != nil {
			return out, fmt.Errorf("%s: DTSTART: %w", out.uid, err)
		}
		out.start = start
		out.end = start.AddDate(0, 0, 1)
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if end, err := time.ParseInLocation("20060102", strings.TrimSpace(dtEnd.Value), loc); err == nil && end.After(start) {
				out.end = end
			}
		} else if d, ok, err := eventDuration(ve); err != nil {
			return out, fmt.Errorf("%s: %w", out.uid, err)
		} else if ok && d >= 24*time.Hour {
			out.end = start.AddDate(0, 0, int(d/(24*time.Hour)))
		}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return out, fmt.Errorf("%s: DTSTART: %w", out.uid, err)
		}
		out.start = start.In(loc)
		out.end = out.start
		if end, err := ve.GetEndAt(); err == nil {
			out.end = end.In(loc)
		} else if d, ok, err := eventDuration(ve); err != nil {
			return out, fmt.Errorf("%s: %w", out.uid, err)
		} else if ok {
			out.end = out.start.Add(d)
		}
	}
	if out.end.Before(out.start) {
		return out, fmt.Errorf("%s: %w", out.uid, layout.ErrInvalidEvent)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		rule, err := rrule.StrToRRule(p.Value)
		if err != nil {
			return out, fmt.Errorf("%s: RRULE %q: %w", out.uid, p.Value, err)
		}
		rule.DTStart(out.start)
		out.rule = rule
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, propertyLocation(p, loc)); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); p != nil {
		if t, err := parseICSTime(p.Value, propertyLocation(p, loc)); err == nil {
			out.recurrenceID = &t
		}
	}
	return out, nil
}

// eventDuration reads the DURATION property used in place of DTEND.
func eventDuration(ve *ical.VEvent) (time.Duration, bool, error) {
	p := ve.GetProperty(ical.ComponentPropertyDuration)
	if p == nil || strings.TrimSpace(p.Value) == "" {
		return 0, false, nil
	}
	d, err := parseICSDuration(p.Value)
	if err != nil {
		return 0, false, err
	}
	return d, true, nil
}

var icsDurationPattern = regexp.MustCompile(`^([+-])?P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseICSDuration parses the RFC 5545 duration format, e.g. "PT1H30M", "P2D" or "P1W".
// A day counts as 24 hours.
func parseICSDuration(v string) (time.Duration, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	m := icsDurationPattern.FindStringSubmatch(v)
	if m == nil || v == "P" || strings.HasSuffix(v, "T") || (m[2] == "" && m[3] == "" && m[4] == "" && m[5] == "" && m[6] == "") {
		return 0, fmt.Errorf("invalid DURATION %q", v)
	}
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, unit := range units {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return 0, fmt.Errorf("invalid DURATION %q: %w", v, err)
		}
		d += time.Duration(n) * unit
	}
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}

// isDateValue reports whether a DTSTART carries a date without a time (VALUE=DATE).
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func propertyLocation(p *ical.IANAProperty, fallback *time.Location) *time.Location {
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		if loc, err := time.LoadLocation(tzs[0]); err == nil {
			return loc
		}
	}
	return fallback
}

// parseICSTime parses DATE and DATE-TIME values as used by EXDATE and RECURRENCE-ID.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

func (m *ICSManager) EventsFor(_ context.Context, day time.Time) ([]layout.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dayEnd := day.AddDate(0, 0, 1)
	candidates := make([]layout.Event, 0)
	for _, e := range m.events {
		if e.rule == nil {
			candidates = append(candidates, e.toEvent(e.start, e.end, e.uid))
			continue
		}
		candidates = append(candidates, m.occurrences(e, day.Add(-e.duration()), dayEnd)...)
	}
	for _, ovs := range m.overrides {
		for _, ov := range ovs {
			candidates = append(candidates, ov.toEvent(ov.start, ov.end, ov.uid, ov.recurrenceID.UTC().Format(time.RFC3339)))
		}
	}
	return eventsOn(candidates, day), nil
}

func (m *ICSManager) occurrences(e icsEvent, from, to time.Time) []layout.Event {
	var set rrule.Set
	set.RRule(e.rule)
	for _, ex := range e.exDates {
		set.ExDate(ex.In(e.start.Location()))
	}
	for _, ov := range m.overrides[e.uid] {
		set.ExDate(ov.recurrenceID.In(e.start.Location()))
	}

	events := make([]layout.Event, 0)
	for _, start := range set.Between(from.In(e.start.Location()), to.In(e.start.Location()), true) {
		end := start.Add(e.duration())
		if e.allDay {
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, m.loc)
			end = start.AddDate(0, 0, e.days())
		}
		events = append(events, e.toEvent(start, end, e.uid, start.UTC().Format(time.RFC3339)))
	}
	return events
}

func (e icsEvent) toEvent(start, end time.Time, idParts ...string) layout.Event {
	return layout.Event{
		ID:       nameID(idParts...),
		Title:    e.summary,
		Location: e.location,
		Start:    start,
		End:      end,
		AllDay:   e.allDay,
	}
}

func (m *ICSManager) EventTapped(_ context.Context, event layout.Event) error {
	log.Infof("%s starting at %s tapped", event.Title, event.Start.Format(time.RFC3339))
	return nil
}

func (m *ICSManager) FreeTimeTapped(_ context.Context, at time.Time) error {
	log.Infof("free time tapped at %s", at.Format(time.RFC3339))
	return nil
}
