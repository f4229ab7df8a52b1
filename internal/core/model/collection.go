package model

import "sort"

// ActivityCollection is the ordered result of one aggregation run.
// Activities appear in the order they were accepted; the centroid is
// present only when at least one activity contributed points.
type ActivityCollection struct {
	Activities  []Activity `json:"activities"`
	Centroid    TrackPoint `json:"centroid"`
	HasCentroid bool       `json:"has_centroid"`
}

// Add appends an activity, preserving acceptance order.
func (c *ActivityCollection) Add(a Activity) {
	c.Activities = append(c.Activities, a)
}

// TotalPoints returns the number of track points across all activities.
func (c *ActivityCollection) TotalPoints() int {
	total := 0
	for _, a := range c.Activities {
		total += len(a.Points)
	}
	return total
}

// Years returns the distinct calendar years of activities with a known
// start time, ascending.
func (c *ActivityCollection) Years() []int {
	seen := make(map[int]bool)
	for _, a := range c.Activities {
		if a.HasStartTime() {
			seen[a.StartTime.Year()] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Types returns the distinct activity type labels, ascending.
func (c *ActivityCollection) Types() []string {
	seen := make(map[string]bool)
	for _, a := range c.Activities {
		seen[a.Type] = true
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
