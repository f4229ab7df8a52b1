package formatter

import (
	"fmt"
	"strings"
)

// SummaryFormatter is responsible for formatting and outputting summary reports.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format formats and outputs the summary information of grouped data.
func (f *SummaryFormatter) Format(data []GroupedStats) error {
	var totalActivities, totalPoints int
	var totalDistance float64
	var firstDate, lastDate string

	for _, row := range data {
		totalActivities += row.Activities
		totalPoints += row.Points
		totalDistance += row.DistanceKm

		if row.First != "" && (firstDate == "" || row.First < firstDate) {
			firstDate = row.First
		}
		if row.Last != "" && (lastDate == "" || row.Last > lastDate) {
			lastDate = row.Last
		}
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Activity Archive Summary")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	if len(data) == 0 {
		fmt.Println("No activities to summarize")
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		return nil
	}

	if firstDate != "" {
		if firstDate == lastDate {
			fmt.Printf("Date Range: %s\n", firstDate)
		} else {
			fmt.Printf("Date Range: %s to %s\n", firstDate, lastDate)
		}
		fmt.Println()
	}

	fmt.Println("Totals:")
	fmt.Printf("  Activities: %s\n", formatCount(totalActivities))
	fmt.Printf("  Track Points: %s\n", formatCount(totalPoints))
	fmt.Printf("  Distance: %s\n", formatDistance(totalDistance))
	fmt.Println()

	fmt.Println("Breakdown:")
	fmt.Println(strings.Repeat("-", 60))

	for _, row := range data {
		fmt.Printf("\n%s:\n", row.Group)
		fmt.Printf("  Activities:     %s\n", formatCount(row.Activities))
		fmt.Printf("  Track Points:   %s\n", formatCount(row.Points))
		fmt.Printf("  Distance:       %s\n", formatDistance(row.DistanceKm))
		if row.First != "" {
			if row.First == row.Last {
				fmt.Printf("  Date Range:     %s\n", row.First)
			} else {
				fmt.Printf("  Date Range:     %s to %s\n", row.First, row.Last)
			}
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))

	return nil
}
