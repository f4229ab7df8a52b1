package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCommandFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
		shorthand    string
	}{
		{"group-by", "year", ""},
		{"output", "table", "o"},
		{"timezone", "Local", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := statsCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag, "Flag %s should exist", tt.flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
			if tt.shorthand != "" {
				assert.Equal(t, tt.shorthand, flag.Shorthand)
			}
		})
	}
}

func TestRunStatsRejectsInvalidGroupBy(t *testing.T) {
	resetFlagVars(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	old := statsGroupBy
	defer func() { statsGroupBy = old }()
	statsGroupBy = "month"

	err := runStats(&cobra.Command{Use: "stats"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid group-by")
}

func TestRunStatsRejectsInvalidOutput(t *testing.T) {
	resetFlagVars(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	old := statsOutput
	defer func() { statsOutput = old }()
	statsOutput = "xml"

	err := runStats(&cobra.Command{Use: "stats"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
