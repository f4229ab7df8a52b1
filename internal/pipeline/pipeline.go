// Package pipeline wires the scan, decode, aggregate and render stages
// into the operations exposed by the CLI.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
	"github.com/jindracerny/gpx-plot-on-map/internal/data/aggregator"
	"github.com/jindracerny/gpx-plot-on-map/internal/data/cache"
	"github.com/jindracerny/gpx-plot-on-map/internal/data/scanner"
	"github.com/jindracerny/gpx-plot-on-map/internal/presentation/render"
	"github.com/jindracerny/gpx-plot-on-map/internal/util"
)

// Errors reported by pipeline runs. Callers match them with errors.Is to
// pick a user-facing message.
var (
	ErrInputDirMissing = errors.New("input directory does not exist")
	ErrNoInputFiles    = errors.New("no activity files found")
	ErrNoActivities    = errors.New("no activities could be decoded")
)

type Config struct {
	InputDir    string
	OutputFile  string
	Mode        string // render.ModeHeatmap or render.ModeRoutes
	Title       string // map document title, empty uses the render default
	Year        int    // 0 keeps every year
	CacheDir    string
	NoCache     bool
	Concurrency int
}

type Pipeline struct {
	config     *Config
	cache      *cache.FileCache
	scanner    *scanner.FileScanner
	aggregator *aggregator.Aggregator
}

func New(config *Config) *Pipeline {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}

	var fileCache *cache.FileCache
	if !config.NoCache {
		var err error
		fileCache, err = cache.NewFileCache(config.CacheDir)
		if err != nil {
			util.LogWarn(fmt.Sprintf("Cache disabled: %v", err))
			fileCache = nil
		}
	}

	var agg *aggregator.Aggregator
	if config.Year != 0 {
		agg = aggregator.NewAggregatorWithYear(config.Concurrency, fileCache, config.Year)
	} else {
		agg = aggregator.NewAggregator(config.Concurrency, fileCache)
	}

	return &Pipeline{
		config:     config,
		cache:      fileCache,
		scanner:    scanner.NewFileScanner(config.InputDir),
		aggregator: agg,
	}
}

// Summary reports what a render produced. Skipped counts input files
// that could not be decoded.
type Summary struct {
	Activities int
	Points     int
	Skipped    int
}

// Run scans the input directory, decodes every activity file and writes
// the HTML map.
func (p *Pipeline) Run() error {
	_, err := p.RunSummary()
	return err
}

// RunSummary is Run with the rendered activity and point counts returned,
// for callers that display them.
func (p *Pipeline) RunSummary() (Summary, error) {
	startTime := time.Now()
	util.LogInfo(fmt.Sprintf("Building activity map from %s", p.config.InputDir))

	collection, stats, err := p.collect()
	if err != nil {
		return Summary{}, err
	}

	renderStart := time.Now()
	opts := render.Options{Mode: p.config.Mode, Title: p.config.Title}
	if err := render.WriteMap(p.config.OutputFile, collection, opts); err != nil {
		return Summary{}, fmt.Errorf("write map: %w", err)
	}
	util.LogDebug(fmt.Sprintf("Phase 4 - Render duration: %v", time.Since(renderStart)))

	summary := Summary{
		Activities: len(collection.Activities),
		Points:     collection.TotalPoints(),
		Skipped:    stats.Failed,
	}
	util.LogInfo(fmt.Sprintf("Map with %d activities (%d points) written to %s",
		summary.Activities, summary.Points, p.config.OutputFile))
	if collection.HasCentroid {
		util.LogDebug(fmt.Sprintf("Map centered at %s", util.FormatCoordinate(collection.Centroid.Lat, collection.Centroid.Lon)))
	}
	util.LogDebug(fmt.Sprintf("Total duration: %v", time.Since(startTime)))

	return summary, nil
}

// collect runs the shared scan and aggregation phases.
func (p *Pipeline) collect() (model.ActivityCollection, aggregator.Stats, error) {
	var noStats aggregator.Stats

	info, err := os.Stat(p.config.InputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return model.ActivityCollection{}, noStats, fmt.Errorf("%w: %s", ErrInputDirMissing, p.config.InputDir)
		}
		return model.ActivityCollection{}, noStats, fmt.Errorf("stat input directory: %w", err)
	}
	if !info.IsDir() {
		return model.ActivityCollection{}, noStats, fmt.Errorf("%w: %s is not a directory", ErrInputDirMissing, p.config.InputDir)
	}

	if p.cache != nil {
		preloadStart := time.Now()
		if err := p.cache.Preload(); err != nil {
			util.LogWarn(fmt.Sprintf("Cache preload failed: %v", err))
		}
		util.LogDebug(fmt.Sprintf("Phase 1 - Cache preload duration: %v", time.Since(preloadStart)))
	}

	scanStart := time.Now()
	files, err := p.scanner.Scan()
	if err != nil {
		return model.ActivityCollection{}, noStats, fmt.Errorf("scan input directory: %w", err)
	}
	util.LogDebug(fmt.Sprintf("Phase 2 - File scan duration: %v, found %d files", time.Since(scanStart), len(files)))

	if len(files) == 0 {
		return model.ActivityCollection{}, noStats, fmt.Errorf("%w in %s", ErrNoInputFiles, p.config.InputDir)
	}
	util.LogInfo(fmt.Sprintf("Found %d activity files", len(files)))

	aggregateStart := time.Now()
	collection, stats := p.aggregator.Aggregate(files)
	util.LogDebug(fmt.Sprintf("Phase 3 - Aggregation duration: %v, %d activities", time.Since(aggregateStart), len(collection.Activities)))

	if len(collection.Activities) == 0 {
		if p.config.Year != 0 {
			return model.ActivityCollection{}, stats, fmt.Errorf("%w for year %d", ErrNoActivities, p.config.Year)
		}
		return model.ActivityCollection{}, stats, ErrNoActivities
	}

	return collection, stats, nil
}
