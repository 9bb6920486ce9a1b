package layout

// Collides reports whether other collides with e. Besides a proper time overlap, two events
// sharing a start instant or an end instant always collide. An event never collides with
// itself.
func (e Event) Collides(other Event) bool {
	if e.ID == other.ID {
		return false
	}
	startsBeforeStart := other.Start.Before(e.Start)
	startsAfterStart := other.Start.After(e.Start)
	startsBeforeEnd := other.Start.Before(e.End)
	endsAfterStart := other.End.After(e.Start)
	endsBeforeEnd := other.End.Before(e.End)
	endsAfterEnd := other.End.After(e.End)

	return (startsBeforeStart && endsAfterStart) ||
		(startsBeforeEnd && endsAfterEnd) ||
		(startsAfterStart && endsBeforeEnd) ||
		other.Start.Equal(e.Start) ||
		other.End.Equal(e.End)
}

// OverlappingEvents returns the timed events of events that collide with target, in input
// order. target itself and all-day events are never part of the result.
func OverlappingEvents(events []Event, target Event) []Event {
	overlapping := make([]Event, 0)
	for _, e := range events {
		if e.AllDay || e.ID == target.ID {
			continue
		}
		if target.Collides(e) {
			overlapping = append(overlapping, e)
		}
	}
	return overlapping
}
