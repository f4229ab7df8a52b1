package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/jindracerny/gpx-plot-on-map/internal/config"
	"github.com/jindracerny/gpx-plot-on-map/internal/presentation/render"
	"github.com/jindracerny/gpx-plot-on-map/internal/watch"
)

var (
	// Rendering flags
	watchOut   string
	watchMode  string
	watchTitle string

	// Timing flags
	watchInterval int
)

const watchLockFile = "~/.gpx-plot-on-map/watch.lock"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the map whenever activity files change",
	Long: `Renders the map once, then keeps watching the input directory and
re-renders after activity files are added, changed or removed.

Bursts of changes (sync tools, bulk copies) collapse into a single render.
On a terminal, press r to force a re-render and q to quit; a status line
shows the outcome of the last render.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	// Rendering flags
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "heatmap.html",
		"Output HTML file path")
	watchCmd.Flags().StringVar(&watchMode, "mode", render.ModeHeatmap,
		"Map mode (heatmap, routes)")
	watchCmd.Flags().StringVar(&watchTitle, "title", "",
		"Map document title")

	// Timing flags
	watchCmd.Flags().IntVar(&watchInterval, "interval", 0,
		"Debounce interval in milliseconds before re-rendering (0 = config value)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	initRuntime(cfg, "Local")

	if err := applyMapFlags(cmd, cfg, watchOut, watchMode, watchTitle); err != nil {
		return err
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	if cmd.Flags().Changed("interval") {
		if watchInterval < 1 {
			return fmt.Errorf("interval must be at least 1 millisecond, got %d", watchInterval)
		}
		debounce = time.Duration(watchInterval) * time.Millisecond
	}

	lockFile, err := config.ExpandPath(watchLockFile)
	if err != nil {
		return fmt.Errorf("resolve lock file: %w", err)
	}

	w := watch.New(&watch.Config{
		Pipeline: pipelineConfig(cfg),
		Debounce: debounce,
		LockFile: lockFile,
	})

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		<-sigChan
		cancel()
	}()

	return w.Run(ctx)
}
