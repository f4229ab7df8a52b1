package config

import "github.com/jindracerny/gpx-plot-on-map/internal/presentation/render"

const (
	defaultConfigPath      = "~/.gpx-plot-on-map/config.toml"
	projectConfigName      = "gpx-plot-on-map.toml"
	defaultInputDir        = "./activities"
	defaultOutputFile      = "heatmap.html"
	defaultCacheDir        = "~/.gpx-plot-on-map/cache"
	defaultLogFile         = "~/.gpx-plot-on-map/logs/app.log"
	defaultMapTitle        = "Activity Map"
	defaultLogLevel        = "info"
	defaultWatchDebounceMs = 500
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:   defaultInputDir,
			OutputFile: defaultOutputFile,
			CacheDir:   defaultCacheDir,
			LogFile:    defaultLogFile,
		},
		Map: Map{
			Mode:  render.ModeHeatmap,
			Title: defaultMapTitle,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
		Watch: Watch{
			DebounceMs: defaultWatchDebounceMs,
		},
	}
}
