package layout

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// LaneStrategy selects how overlap groups are formed.
type LaneStrategy string

const (
	// PerEventLanes computes each event's overlap group independently from the events that
	// collide with it directly. Chains of partial overlaps (A-B, B-C but not A-C) can end up
	// with lane geometry that is not mutually consistent.
	PerEventLanes LaneStrategy = "per_event"
	// ClusterLanes merges collisions transitively and colours each cluster greedily, so
	// colliding events never share a lane and all members of a cluster share a lane count.
	ClusterLanes LaneStrategy = "cluster"
)

func ParseLaneStrategy(s string) (LaneStrategy, error) {
	switch LaneStrategy(s) {
	case "", PerEventLanes:
		return PerEventLanes, nil
	case ClusterLanes:
		return ClusterLanes, nil
	}
	return "", fmt.Errorf("%w: unknown lane strategy %q", ErrInvalidConfig, s)
}

type LaneAssignment struct {
	EventID   uuid.UUID
	LaneIndex int
	LaneCount int
}

// AssignLanes assigns a lane to every timed event of the day. The result follows the order
// of day.TimedEvents().
func AssignLanes(day Day, strategy LaneStrategy) []LaneAssignment {
	timed := day.TimedEvents()
	if strategy == ClusterLanes {
		return clusterLanes(timed)
	}
	return perEventLanes(timed)
}

func perEventLanes(timed []Event) []LaneAssignment {
	assignments := make([]LaneAssignment, 0, len(timed))
	for _, e := range timed {
		group := append(OverlappingEvents(timed, e), e)
		slices.SortFunc(group, Compare)
		index := slices.IndexFunc(group, func(g Event) bool { return g.ID == e.ID })
		assignments = append(assignments, LaneAssignment{
			EventID:   e.ID,
			LaneIndex: max(index, 0),
			LaneCount: len(group),
		})
	}
	return assignments
}

func clusterLanes(timed []Event) []LaneAssignment {
	order := make([]int, len(timed))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return Compare(timed[a], timed[b]) })

	lane := make([]int, len(timed))
	for pos, i := range order {
		used := map[int]bool{}
		for _, j := range order[:pos] {
			if timed[i].Collides(timed[j]) {
				used[lane[j]] = true
			}
		}
		l := 0
		for used[l] {
			l++
		}
		lane[i] = l
	}

	cluster := make([]int, len(timed))
	for i := range cluster {
		cluster[i] = -1
	}
	counts := make([]int, 0)
	for _, i := range order {
		if cluster[i] != -1 {
			continue
		}
		id := len(counts)
		counts = append(counts, 0)
		queue := []int{i}
		cluster[i] = id
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			counts[id] = max(counts[id], lane[cur]+1)
			for j := range timed {
				if cluster[j] == -1 && timed[cur].Collides(timed[j]) {
					cluster[j] = id
					queue = append(queue, j)
				}
			}
		}
	}

	assignments := make([]LaneAssignment, 0, len(timed))
	for i, e := range timed {
		assignments = append(assignments, LaneAssignment{
			EventID:   e.ID,
			LaneIndex: lane[i],
			LaneCount: counts[cluster[i]],
		})
	}
	return assignments
}
