package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jindracerny/gpx-plot-on-map/internal/config"
	"github.com/jindracerny/gpx-plot-on-map/internal/pipeline"
	"github.com/jindracerny/gpx-plot-on-map/internal/presentation/render"
	"github.com/jindracerny/gpx-plot-on-map/internal/util"
)

var (
	// Logging related
	debug bool

	// Input configuration
	inputDir   string
	configPath string

	// Output related
	outputFile string
	mapMode    string
	mapTitle   string

	// Filtering and decoding
	year        int
	concurrency int

	// Cache control
	noCache bool
	reset   bool

	rootCmd = &cobra.Command{
		Use:   "gpx-plot-on-map [flags]",
		Short: "Plot GPX and FIT activities on an interactive map",
		Long: `gpx-plot-on-map renders a directory of GPX and FIT activity recordings
(plain or gzip-compressed) into a single self-contained HTML map.

The tool scans the input directory recursively, decodes every activity it
finds, and writes an HTML file you can open in any browser.

Examples:
  gpx-plot-on-map                                      # Render ./activities to heatmap.html
  gpx-plot-on-map --dir ~/activities --out rides.html  # Custom input and output paths
  gpx-plot-on-map --mode routes --year 2024            # Per-activity routes for one year
  gpx-plot-on-map --no-cache                           # Decode everything from scratch
  gpx-plot-on-map stats --group-by type                # Tabular report by activity type
  gpx-plot-on-map watch                                # Re-render whenever files change`,
		RunE: runRender,
	}
)

func init() {
	// Input configuration
	rootCmd.PersistentFlags().StringVar(&inputDir, "dir", "./activities",
		"Activity directory path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"TOML config file (default ~/.gpx-plot-on-map/config.toml)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFile, "out", "o", "heatmap.html",
		"Output HTML file path")
	rootCmd.Flags().StringVar(&mapMode, "mode", render.ModeHeatmap,
		"Map mode (heatmap, routes)")
	rootCmd.Flags().StringVar(&mapTitle, "title", "",
		"Map document title")

	// Filtering and decoding
	rootCmd.PersistentFlags().IntVar(&year, "year", 0,
		"Keep only activities starting in this year (0 = all years)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", runtime.NumCPU(),
		"Number of decode workers")

	// Cache control
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"Bypass the decode cache")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear the decode cache before rendering")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	initRuntime(cfg, "Local")

	if err := applyMapFlags(cmd, cfg, outputFile, mapMode, mapTitle); err != nil {
		return err
	}

	// Ensure cache directory exists
	if err := ensureDir(cfg.Paths.CacheDir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Clear cache if needed
	if reset {
		if err := clearCache(cfg.Paths.CacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	p := pipeline.New(pipelineConfig(cfg))
	return p.Run()
}

// loadSettings resolves the TOML config file and folds the shared flags
// over it. Flags the user set explicitly win over the file, the file wins
// over built-in defaults.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	if year < 0 {
		return nil, fmt.Errorf("year must not be negative, got %d", year)
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("dir") {
		expanded, err := config.ExpandPath(inputDir)
		if err != nil {
			return nil, fmt.Errorf("resolve input directory: %w", err)
		}
		cfg.Paths.InputDir = expanded
	}

	return cfg, nil
}

// applyMapFlags folds the render target flags into the effective settings.
// The flag values come in as arguments because watch declares its own
// copies of these flags.
func applyMapFlags(cmd *cobra.Command, cfg *config.Config, out, mode, title string) error {
	flags := cmd.Flags()

	if flags.Changed("out") {
		expanded, err := config.ExpandPath(out)
		if err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}
		cfg.Paths.OutputFile = expanded
	}
	if flags.Changed("mode") {
		resolved, err := resolveMode(mode)
		if err != nil {
			return err
		}
		cfg.Map.Mode = resolved
	}
	if flags.Changed("title") {
		cfg.Map.Title = title
	}

	return nil
}

// initRuntime configures logging and the process time provider from the
// effective settings. Every command runs this before doing any work.
func initRuntime(cfg *config.Config, timezone string) {
	logLevel := cfg.Logging.Level
	if debug {
		logLevel = "debug"
	}

	ensureDir(filepath.Dir(cfg.Paths.LogFile))
	util.InitLogger(logLevel, cfg.Paths.LogFile, debug)
	util.InitializeTimeProvider(timezone)
}

// pipelineConfig builds the pipeline configuration from the effective
// settings and the shared flags.
func pipelineConfig(cfg *config.Config) *pipeline.Config {
	return &pipeline.Config{
		InputDir:    cfg.Paths.InputDir,
		OutputFile:  cfg.Paths.OutputFile,
		Mode:        cfg.Map.Mode,
		Title:       cfg.Map.Title,
		Year:        year,
		CacheDir:    cfg.Paths.CacheDir,
		NoCache:     noCache,
		Concurrency: concurrency,
	}
}

func resolveMode(mode string) (string, error) {
	resolved := strings.ToLower(strings.TrimSpace(mode))
	if !render.ValidMode(resolved) {
		return "", fmt.Errorf("invalid mode '%s': must be either '%s' or '%s'",
			mode, render.ModeHeatmap, render.ModeRoutes)
	}
	return resolved, nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
