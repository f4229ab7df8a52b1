package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jindracerny/gpx-plot-on-map/internal/pipeline"
)

var (
	// Grouping flags
	statsGroupBy string

	// Output flags
	statsOutput   string
	statsTimezone string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the activity archive",
	Long: `Prints a report of the activity archive grouped by calendar year or by
activity type, with activity, point and distance totals per group.

The report reads the same directory and cache as the render command, so
--dir, --year and --no-cache apply here too.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	// Grouping flags
	statsCmd.Flags().StringVar(&statsGroupBy, "group-by", pipeline.GroupByYear,
		"Group by field (year, type)")

	// Output flags
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	statsCmd.Flags().StringVar(&statsTimezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	initRuntime(cfg, statsTimezone)

	// Validate grouping
	if statsGroupBy != pipeline.GroupByYear && statsGroupBy != pipeline.GroupByType {
		return fmt.Errorf("invalid group-by '%s': must be either '%s' or '%s'",
			statsGroupBy, pipeline.GroupByYear, pipeline.GroupByType)
	}

	// Validate output format
	switch statsOutput {
	case "table", "json", "csv", "summary":
	default:
		return fmt.Errorf("invalid output format '%s': must be one of table, json, csv, summary", statsOutput)
	}

	p := pipeline.New(pipelineConfig(cfg))
	return p.RunStats(statsGroupBy, statsOutput)
}
