package pipeline

import (
	"sort"
	"strconv"
	"time"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/geo"
	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
	"github.com/jindracerny/gpx-plot-on-map/internal/presentation/formatter"
	"github.com/jindracerny/gpx-plot-on-map/internal/util"
)

// Grouping keys for the stats report.
const (
	GroupByYear = "year"
	GroupByType = "type"
)

// Group label for activities without a start time under year grouping.
const undatedGroup = "undated"

const dateLayout = "2006-01-02"

// RunStats prints a report of the archive grouped by year or activity type.
func (p *Pipeline) RunStats(groupBy, outputFormat string) error {
	collection, _, err := p.collect()
	if err != nil {
		return err
	}

	return formatStats(groupActivities(collection, groupBy), outputFormat)
}

// groupActivities folds the collection into report rows, sorted by group key.
func groupActivities(collection model.ActivityCollection, groupBy string) []formatter.GroupedStats {
	groupMap := make(map[string]*formatter.GroupedStats)
	firstTimes := make(map[string]time.Time)
	lastTimes := make(map[string]time.Time)

	for i := range collection.Activities {
		act := &collection.Activities[i]
		key := groupKey(act, groupBy)

		row, ok := groupMap[key]
		if !ok {
			row = &formatter.GroupedStats{Group: key}
			groupMap[key] = row
		}
		row.Activities++
		row.Points += len(act.Points)
		row.DistanceKm += geo.TrackDistance(act.Points)

		if act.HasStartTime() {
			if first, ok := firstTimes[key]; !ok || act.StartTime.Before(first) {
				firstTimes[key] = act.StartTime
			}
			if last, ok := lastTimes[key]; !ok || act.StartTime.After(last) {
				lastTimes[key] = act.StartTime
			}
		}
	}

	// Dates are shown in the configured display timezone; the grouping
	// itself never re-interprets the decoded instants.
	tp := util.GetTimeProvider()
	result := make([]formatter.GroupedStats, 0, len(groupMap))
	for key, row := range groupMap {
		if first, ok := firstTimes[key]; ok {
			row.First = tp.Format(first, dateLayout)
			row.Last = tp.Format(lastTimes[key], dateLayout)
		}
		result = append(result, *row)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Group < result[j].Group
	})

	return result
}

func groupKey(act *model.Activity, groupBy string) string {
	switch groupBy {
	case GroupByType:
		return act.Type
	default:
		if !act.HasStartTime() {
			return undatedGroup
		}
		return strconv.Itoa(act.StartTime.Year())
	}
}

func formatStats(data []formatter.GroupedStats, outputFormat string) error {
	switch outputFormat {
	case "json":
		return formatter.NewJSONFormatter().Format(data)
	case "csv":
		return formatter.NewCSVFormatter().Format(data)
	case "summary":
		return formatter.NewSummaryFormatter().Format(data)
	default:
		return formatter.NewTableFormatter().Format(data)
	}
}
