package formatter

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Group", "Activities", "Points", "Distance", "First", "Last"},
	}
}

func (f *TableFormatter) Format(data []GroupedStats) error {
	widths := f.calculateColumnWidths(data)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")

	for _, row := range data {
		f.printRow(rowValues(row), widths)
	}

	f.printBorder(widths, "middle")
	f.printRow(totalValues(data), widths)
	f.printBorder(widths, "bottom")

	return nil
}

func rowValues(row GroupedStats) []string {
	return []string{
		row.Group,
		formatCount(row.Activities),
		formatCount(row.Points),
		formatDistance(row.DistanceKm),
		row.First,
		row.Last,
	}
}

func totalValues(data []GroupedStats) []string {
	var activities, points int
	var distance float64
	for _, row := range data {
		activities += row.Activities
		points += row.Points
		distance += row.DistanceKm
	}
	return []string{
		"Total",
		formatCount(activities),
		formatCount(points),
		formatDistance(distance),
		"",
		"",
	}
}

// calculateColumnWidths sizes each column to its widest value, including
// the header and the total row.
func (f *TableFormatter) calculateColumnWidths(data []GroupedStats) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = len(header)
	}

	rows := make([][]string, 0, len(data)+1)
	for _, row := range data {
		rows = append(rows, rowValues(row))
	}
	rows = append(rows, totalValues(data))

	for _, values := range rows {
		for i, value := range values {
			if len(value) > widths[i] {
				widths[i] = len(value)
			}
		}
	}

	for i := range widths {
		if widths[i] < 8 {
			widths[i] = 8
		}
	}

	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat(separator, width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

// printRow prints one row. The group and date columns are left-aligned,
// numeric columns are right-aligned.
func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		if i == 0 || i >= 4 {
			fmt.Printf(" %-*s │", widths[i], value)
		} else {
			fmt.Printf(" %*s │", widths[i], value)
		}
	}
	fmt.Println()
}

var statPrinter = message.NewPrinter(language.English)

// formatCount renders a count with thousands separators.
func formatCount(n int) string {
	return statPrinter.Sprintf("%d", n)
}

func formatDistance(km float64) string {
	return statPrinter.Sprintf("%.1f km", km)
}
