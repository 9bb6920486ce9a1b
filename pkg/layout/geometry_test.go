package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-6

var exampleScale = Scale{VisibleHours: 12, ViewportHeight: 1200}

func TestScale_SecondHeight(t *testing.T) {
	assert.InDelta(t, 1200.0/12/3600, exampleScale.SecondHeight(), delta)
	assert.InDelta(t, 2400.0, exampleScale.ContentHeight(), delta)

	fullDay := Scale{VisibleHours: 24, ViewportHeight: 1200}
	assert.InDelta(t, 1200.0, fullDay.ContentHeight(), delta)
}

func TestScale_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		scale   Scale
		wantErr bool
	}{
		{"valid", exampleScale, false},
		{"one hour", Scale{VisibleHours: 1, ViewportHeight: 10}, false},
		{"full day", Scale{VisibleHours: 24, ViewportHeight: 10}, false},
		{"zero hours", Scale{VisibleHours: 0, ViewportHeight: 10}, true},
		{"too many hours", Scale{VisibleHours: 25, ViewportHeight: 10}, true},
		{"zero height", Scale{VisibleHours: 12, ViewportHeight: 0}, true},
		{"negative height", Scale{VisibleHours: 12, ViewportHeight: -5}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scale.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScale_ExampleEvent(t *testing.T) {
	day := Day{Date: at(0, 0, 0)}
	a := timedEvent("A", at(0, 9, 0), at(0, 10, 0))

	assert.InDelta(t, 900.0, exampleScale.VerticalOffset(day, a), delta)
	assert.InDelta(t, 100.0, exampleScale.Height(day, a), delta)
}

func TestScale_EventAcrossMidnight(t *testing.T) {
	secondHeight := exampleScale.SecondHeight()
	late := timedEvent("Late", at(0, 23, 0), at(1, 1, 0))
	day1 := Day{Date: at(0, 0, 0)}
	day2 := Day{Date: at(1, 0, 0)}

	assert.InDelta(t, 23*3600*secondHeight, exampleScale.VerticalOffset(day1, late), delta)
	assert.InDelta(t, 3600*secondHeight, exampleScale.Height(day1, late), delta)

	assert.InDelta(t, 0.0, exampleScale.VerticalOffset(day2, late), delta)
	assert.InDelta(t, 3600*secondHeight, exampleScale.Height(day2, late), delta)
}

func TestScale_EventCoveringWholeDay(t *testing.T) {
	day := Day{Date: at(1, 0, 0)}
	trip := timedEvent("Trip", at(0, 15, 0), at(2, 9, 0))

	assert.Zero(t, exampleScale.VerticalOffset(day, trip))
	assert.InDelta(t, exampleScale.SecondHeight()*24*3600, exampleScale.Height(day, trip), delta)
	assert.InDelta(t, exampleScale.ContentHeight(), exampleScale.Height(day, trip), delta)
}

func TestScale_EventEndingAtMidnight(t *testing.T) {
	day := Day{Date: at(0, 0, 0)}
	evening := timedEvent("Evening", at(0, 22, 0), at(1, 0, 0))

	assert.InDelta(t, 2*3600*exampleScale.SecondHeight(), exampleScale.Height(day, evening), delta)
}

func TestScale_ZeroDurationHasNoHeight(t *testing.T) {
	day := Day{Date: at(0, 0, 0)}
	marker := timedEvent("Marker", at(0, 12, 0), at(0, 12, 0))

	assert.InDelta(t, 12*3600*exampleScale.SecondHeight(), exampleScale.VerticalOffset(day, marker), delta)
	assert.Zero(t, exampleScale.Height(day, marker))
}

func TestScale_IgnoresSeconds(t *testing.T) {
	day := Day{Date: at(0, 0, 0)}
	e := timedEvent("Seconds", at(0, 9, 0).Add(42*time.Second), at(0, 9, 30).Add(17*time.Second))

	assert.Equal(t, 9*3600, OffsetSeconds(day, e))
	assert.Equal(t, 9*3600+30*60, EndSeconds(day, e))
}

func TestScale_SequentialEventsDoNotOverlapVertically(t *testing.T) {
	day := Day{Date: at(0, 0, 0)}
	events := []Event{
		timedEvent("First", at(0, 8, 0), at(0, 9, 15)),
		timedEvent("Second", at(0, 9, 15), at(0, 10, 0)),
		timedEvent("Third", at(0, 13, 0), at(0, 17, 45)),
	}
	lanes := AssignLanes(dayWith(events...), PerEventLanes)

	for i := 1; i < len(events); i++ {
		require.Equal(t, 1, lanes[i].LaneCount)
		prevBottom := exampleScale.VerticalOffset(day, events[i-1]) + exampleScale.Height(day, events[i-1])
		assert.GreaterOrEqual(t, exampleScale.VerticalOffset(day, events[i])+delta, prevBottom)
	}
}

func TestScale_NowOffset(t *testing.T) {
	now := at(0, 14, 30)

	assert.InDelta(t, (14*3600+30*60)*exampleScale.SecondHeight(), exampleScale.NowOffset(now, time.UTC), delta)
	assert.Zero(t, exampleScale.NowOffset(at(0, 0, 0), time.UTC))
}

func TestScale_TimeAt(t *testing.T) {
	day := Day{Date: at(0, 0, 0)}

	assert.Equal(t, at(0, 9, 0), exampleScale.TimeAt(day, 900))
	assert.Equal(t, at(0, 0, 0), exampleScale.TimeAt(day, -50))
	assert.Equal(t, at(1, 0, 0), exampleScale.TimeAt(day, exampleScale.ContentHeight()+10))
}

func TestScale_WallClockOnDSTDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	// Clocks jump from 02:00 to 03:00 on this day.
	day := Day{Date: time.Date(2026, time.March, 29, 0, 0, 0, 0, berlin)}
	meeting := timedEvent("Meeting", time.Date(2026, time.March, 29, 10, 0, 0, 0, berlin), time.Date(2026, time.March, 29, 11, 0, 0, 0, berlin))
	day.Events = []Event{meeting}

	top := exampleScale.VerticalOffset(day, meeting)
	require.InDelta(t, 1000.0, top, delta)
	assert.True(t, meeting.Start.Equal(exampleScale.TimeAt(day, top)))

	tapped, ok := exampleScale.FreeTimeAt(day, 1010)
	assert.False(t, ok, "a tap inside the meeting is not free time")
	assert.True(t, time.Date(2026, time.March, 29, 10, 6, 0, 0, berlin).Equal(tapped), "got %s", tapped)

	now := time.Date(2026, time.March, 29, 10, 30, 0, 0, berlin)
	assert.InDelta(t, 1050.0, exampleScale.NowOffset(now, berlin), delta)
}

func TestScale_FreeTimeAt(t *testing.T) {
	meeting := timedEvent("Meeting", at(0, 9, 0), at(0, 10, 0))
	holiday := allDayEvent("Holiday", 0)
	day := dayWith(meeting, holiday)

	testCases := []struct {
		name   string
		y      float64
		wantAt time.Time
		wantOk bool
	}{
		{"before the meeting", 800, at(0, 8, 0), true},
		{"meeting start", 900, at(0, 9, 0), false},
		{"inside the meeting", 950, at(0, 9, 30), false},
		{"meeting end is free", 1000, at(0, 10, 0), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gotAt, ok := exampleScale.FreeTimeAt(day, tc.y)

			assert.Equal(t, tc.wantOk, ok)
			assert.WithinDuration(t, tc.wantAt, gotAt, time.Millisecond)
		})
	}
}
