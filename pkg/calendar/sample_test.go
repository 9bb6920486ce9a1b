package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/weekview/internal/event_bus"
	"github.com/klokku/weekview/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventsFor(t *testing.T) {
	day := icsDay(0)

	events := MockEventsFor(day, 2)

	require.Len(t, events, 3)
	for n, e := range events {
		assert.Equal(t, []string{"Event0", "Event1", "Event2"}[n], e.Title)
		assert.Equal(t, day.Add(time.Duration(n)*time.Hour), e.Start)
		assert.Equal(t, time.Hour, e.Duration())
		assert.NoError(t, e.Validate())
	}
	assert.Equal(t, "Event 1 sub text", events[1].Location)
}

func TestSampleManager_EventsFor(t *testing.T) {
	bus := event_bus.NewEventBus()
	var changes []event_bus.EventsChanged
	event_bus.SubscribeTyped(bus, event_bus.EventsChangedType, func(e event_bus.EventT[event_bus.EventsChanged]) error {
		changes = append(changes, e.Data)
		return nil
	})
	m := NewSampleManager(bus)
	events := append(MockEventsFor(icsDay(0), 1), MockEventsFor(icsDay(1), 0)...)

	require.NoError(t, m.SetEvents(context.Background(), events))

	first, err := m.EventsFor(context.Background(), icsDay(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"Event0", "Event1"}, titles(first))

	second, err := m.EventsFor(context.Background(), icsDay(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"Event0"}, titles(second))

	assert.Equal(t, []event_bus.EventsChanged{{Source: SampleSource}}, changes)
}

func TestSampleManager_FreeTimeTappedRequestsScroll(t *testing.T) {
	bus := event_bus.NewEventBus()
	var requested []time.Time
	event_bus.SubscribeTyped(bus, event_bus.ScrollRequestedType, func(e event_bus.EventT[event_bus.ScrollRequested]) error {
		requested = append(requested, e.Data.Date)
		return nil
	})
	m := NewSampleManager(bus)
	at := icsDay(2).Add(15 * time.Hour)

	require.NoError(t, m.FreeTimeTapped(context.Background(), at))

	assert.Equal(t, at, m.ScrollDate())
	assert.Equal(t, []time.Time{at}, requested)
}

func TestSampleManager_WorksWithoutBus(t *testing.T) {
	m := NewSampleManager(nil)
	at := icsDay(0).Add(10 * time.Hour)

	assert.NoError(t, m.SetEvents(context.Background(), MockEventsFor(icsDay(0), 0)))
	assert.NoError(t, m.FreeTimeTapped(context.Background(), at))
	assert.NoError(t, m.EventTapped(context.Background(), layout.Event{Title: "Event0", Start: at}))
	assert.Equal(t, at, m.ScrollDate())
}

func TestStubManager(t *testing.T) {
	day := icsDay(0)
	events := MockEventsFor(day, 1)
	stub := NewStubManager(events...)
	stub.FailOn(icsDay(1), assert.AnError)

	got, err := stub.EventsFor(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, events, got)

	_, err = stub.EventsFor(context.Background(), icsDay(1))
	assert.ErrorIs(t, err, assert.AnError)

	require.NoError(t, stub.EventTapped(context.Background(), events[0]))
	require.NoError(t, stub.FreeTimeTapped(context.Background(), day))
	assert.Equal(t, []layout.Event{events[0]}, stub.TappedEvents())
	assert.Equal(t, []time.Time{day}, stub.FreeTimeTaps())
	assert.Equal(t, []time.Time{day, icsDay(1)}, stub.Requests)
}
