package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(data []GroupedStats) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{"Group", "Activities", "Points", "Distance (km)", "First", "Last"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range data {
		record := []string{
			row.Group,
			fmt.Sprintf("%d", row.Activities),
			fmt.Sprintf("%d", row.Points),
			fmt.Sprintf("%.2f", row.DistanceKm),
			row.First,
			row.Last,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
