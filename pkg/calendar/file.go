package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/weekview/pkg/layout"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrInvalidFile = errors.New("invalid events file")

type fileDocument struct {
	Events []fileEvent `yaml:"events"`
}

type fileEvent struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Location string `yaml:"location"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	AllDay   bool   `yaml:"allDay"`
	Color    string `yaml:"color"`
}

// FileManager serves events from a YAML file:
//
//	events:
//	  - title: Standup
//	    start: 2026-01-12T09:00:00+01:00
//	    end: 2026-01-12T09:15:00+01:00
//	  - title: Holiday
//	    start: 2026-01-13
//	    allDay: true
//
// Times without an offset are read in the manager's location. An all-day event without an
// end lasts one day.
type FileManager struct {
	path string
	loc  *time.Location

	mu     sync.RWMutex
	events []layout.Event
}

func NewFileManager(path string, loc *time.Location) (*FileManager, error) {
	if loc == nil {
		loc = time.Local
	}
	m := &FileManager{path: path, loc: loc}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload re-reads the file. On error the previously loaded events are kept.
func (m *FileManager) Reload() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read events file %s: %w", m.path, err)
	}
	events, err := parseEventsFile(data, m.loc)
	if err != nil {
		return fmt.Errorf("%s: %w", m.path, err)
	}

	m.mu.Lock()
	m.events = events
	m.mu.Unlock()
	log.Infof("Loaded %d events from %s", len(events), m.path)
	return nil
}

func parseEventsFile(data []byte, loc *time.Location) ([]layout.Event, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	events := make([]layout.Event, 0, len(doc.Events))
	for i, fe := range doc.Events {
		e, err := fe.toEvent(loc)
		if err != nil {
			return nil, fmt.Errorf("%w: event #%d (%q): %w", ErrInvalidFile, i+1, fe.Title, err)
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: event #%d (%q): %w", ErrInvalidFile, i+1, fe.Title, err)
		}
		events = append(events, e)
	}
	return events, nil
}

func (fe fileEvent) toEvent(loc *time.Location) (layout.Event, error) {
	start, err := parseFileTime(fe.Start, loc)
	if err != nil {
		return layout.Event{}, fmt.Errorf("start: %w", err)
	}
	if fe.AllDay {
		start = layout.StartOfDay(start, loc)
	}

	var end time.Time
	switch {
	case fe.End != "":
		end, err = parseFileTime(fe.End, loc)
		if err != nil {
			return layout.Event{}, fmt.Errorf("end: %w", err)
		}
	case fe.AllDay:
		end = start.AddDate(0, 0, 1)
	default:
		end = start
	}

	id := nameID(fe.Title, fe.Start, fe.End)
	if fe.ID != "" {
		id, err = uuid.Parse(fe.ID)
		if err != nil {
			return layout.Event{}, fmt.Errorf("id: %w", err)
		}
	}

	return layout.Event{
		ID:       id,
		Title:    fe.Title,
		Location: fe.Location,
		Start:    start,
		End:      end,
		AllDay:   fe.AllDay,
		Color:    fe.Color,
	}, nil
}

var fileTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseFileTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("missing time")
	}
	for _, l := range fileTimeLayouts {
		if t, err := time.ParseInLocation(l, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %s", value)
}

func (m *FileManager) EventsFor(_ context.Context, day time.Time) ([]layout.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return eventsOn(m.events, day), nil
}

func (m *FileManager) EventTapped(_ context.Context, event layout.Event) error {
	log.Infof("%s starting at %s tapped", event.Title, event.Start.Format(time.RFC3339))
	return nil
}

func (m *FileManager) FreeTimeTapped(_ context.Context, at time.Time) error {
	log.Infof("free time tapped at %s", at.Format(time.RFC3339))
	return nil
}
