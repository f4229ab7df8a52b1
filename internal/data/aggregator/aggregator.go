// Package aggregator turns scanned source files into a single activity
// collection. Files are decoded concurrently with a bounded worker pool,
// unchanged files are served from the decode cache, and the input order
// of the file list is preserved in the resulting collection.
package aggregator

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/geo"
	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
	"github.com/jindracerny/gpx-plot-on-map/internal/data/cache"
	"github.com/jindracerny/gpx-plot-on-map/internal/data/decoder"
	"github.com/jindracerny/gpx-plot-on-map/internal/util"
)

// Aggregator decodes activity files and folds them into an ActivityCollection.
type Aggregator struct {
	concurrency int
	cache       *cache.FileCache
	year        int
	hasYear     bool
}

// decodeResult holds the outcome of decoding a single source file.
type decodeResult struct {
	activity model.Activity
	err      error
	cacheHit bool
}

// Stats counts what happened to the input files during one aggregation.
// Every input file lands in exactly one of: the collection, Failed, Empty
// or Filtered.
type Stats struct {
	CacheHits int
	Failed    int
	Empty     int
	Filtered  int
}

// NewAggregator creates an Aggregator without a year filter. A nil cache
// disables caching. Concurrency values below 1 fall back to the CPU count.
func NewAggregator(concurrency int, fileCache *cache.FileCache) *Aggregator {
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	return &Aggregator{
		concurrency: concurrency,
		cache:       fileCache,
	}
}

// NewAggregatorWithYear creates an Aggregator that keeps only activities
// whose start time falls in the given calendar year. Activities without a
// start time never match the filter.
func NewAggregatorWithYear(concurrency int, fileCache *cache.FileCache, year int) *Aggregator {
	a := NewAggregator(concurrency, fileCache)
	a.year = year
	a.hasYear = true
	return a
}

// Aggregate decodes all files and returns the resulting collection.
// Files that fail to decode are logged and skipped, so one corrupt
// recording never discards the rest of the archive. Activities without
// any usable track points are dropped.
func (a *Aggregator) Aggregate(files []model.SourceFile) (model.ActivityCollection, Stats) {
	start := time.Now()
	util.LogDebug(fmt.Sprintf("Start concurrent decoding of %d files, concurrency: %d", len(files), a.concurrency))

	// Results are written at the file's position so that the collection
	// keeps the scanner's deterministic order regardless of which worker
	// finishes first.
	results := make([]decodeResult, len(files))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, a.concurrency)

	for i := range files {
		wg.Add(1)
		go func(idx int, src model.SourceFile) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			util.LogDebug(fmt.Sprintf("Processing file %d/%d: %s", idx+1, len(files), src.Path))
			results[idx] = a.decodeOne(src)
		}(i, files[i])
	}
	wg.Wait()

	var collection model.ActivityCollection
	var stats Stats
	for i := range results {
		res := &results[i]
		if res.err != nil {
			util.LogWarn(fmt.Sprintf("Skipping %s: %v", files[i].Path, res.err))
			stats.Failed++
			continue
		}
		if res.cacheHit {
			stats.CacheHits++
		}
		if len(res.activity.Points) == 0 {
			util.LogDebug(fmt.Sprintf("Dropping %s: no usable track points", files[i].Path))
			stats.Empty++
			continue
		}
		if a.hasYear && !a.matchesYear(res.activity) {
			stats.Filtered++
			continue
		}
		collection.Add(res.activity)
	}

	var allPoints []model.TrackPoint
	for i := range collection.Activities {
		allPoints = append(allPoints, collection.Activities[i].Points...)
	}
	collection.Centroid, collection.HasCentroid = geo.Centroid(allPoints)

	util.LogDebug(fmt.Sprintf(
		"Aggregation finished: %d activities from %d files (cache hits: %d, failed: %d, empty: %d, filtered: %d), duration: %v",
		len(collection.Activities), len(files), stats.CacheHits, stats.Failed, stats.Empty, stats.Filtered, time.Since(start)))

	return collection, stats
}

// decodeOne returns the activity for a single source file, consulting the
// cache first and storing fresh decodes back into it.
func (a *Aggregator) decodeOne(src model.SourceFile) decodeResult {
	if a.cache != nil {
		if res := a.cache.Get(src.Path); res.Found {
			return decodeResult{activity: res.Entry.Activity, cacheHit: true}
		}
	}

	fileStart := time.Now()
	activity, err := decoder.DecodeSource(src)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Decode failed: %s, duration %v - %v", src.Path, time.Since(fileStart), err))
		return decodeResult{err: err}
	}
	util.LogDebug(fmt.Sprintf("Decoded %s: %d points, duration %v", src.Path, len(activity.Points), time.Since(fileStart)))

	if a.cache != nil {
		if err := a.cache.Set(src.Path, activity); err != nil {
			util.LogWarn(fmt.Sprintf("Failed to cache %s: %v", src.Path, err))
		}
	}
	return decodeResult{activity: activity}
}

func (a *Aggregator) matchesYear(activity model.Activity) bool {
	return activity.HasStartTime() && activity.StartTime.Year() == a.year
}
