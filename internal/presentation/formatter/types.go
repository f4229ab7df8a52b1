package formatter

// GroupedStats is one row of the stats report: every activity sharing a
// group key (a calendar year or an activity type) folded together.
type GroupedStats struct {
	Group      string
	Activities int
	Points     int
	DistanceKm float64
	First      string // earliest start date in the group, YYYY-MM-DD
	Last       string // latest start date in the group, YYYY-MM-DD
}
