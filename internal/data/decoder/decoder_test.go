package decoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
	"github.com/jindracerny/gpx-plot-on-map/internal/testing/fixtures"
)

func TestForFormat(t *testing.T) {
	fit, err := ForFormat(model.FormatFIT)
	require.NoError(t, err)
	assert.IsType(t, &FITDecoder{}, fit)

	gpx, err := ForFormat(model.FormatGPX)
	require.NoError(t, err)
	assert.IsType(t, &GPXDecoder{}, gpx)

	_, err = ForFormat(model.Format(42))
	assert.Error(t, err)
}

func TestDecodeSourceSetsSourcePath(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())
	path, err := gen.GenerateGPX("walk.gpx", fixtures.GPXSpec{
		TrackType: "walking",
		Segments:  [][]model.TrackPoint{{{Lat: 50.0, Lon: 14.0}}},
	})
	require.NoError(t, err)

	activity, err := DecodeSource(model.SourceFile{Path: path, Format: model.FormatGPX})
	require.NoError(t, err)
	assert.Equal(t, path, activity.Source)
	assert.Equal(t, "Walking", activity.Type)
}

func TestDecodeSourceGzipEquivalence(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())
	start := time.Date(2023, 8, 1, 7, 0, 0, 0, time.UTC)

	path, err := gen.GenerateGPX("equiv.gpx", fixtures.GPXSpec{
		TrackType: "running",
		StartTime: start,
		Segments:  [][]model.TrackPoint{{{Lat: 50.1, Lon: 14.4}, {Lat: 50.2, Lon: 14.5}}},
	})
	require.NoError(t, err)
	gzPath, err := gen.GzipCopy(path)
	require.NoError(t, err)

	plain, err := DecodeSource(model.SourceFile{Path: path, Format: model.FormatGPX})
	require.NoError(t, err)
	compressed, err := DecodeSource(model.SourceFile{Path: gzPath, Format: model.FormatGPX, Compressed: true})
	require.NoError(t, err)

	// Identical apart from the originating path
	compressed.Source = plain.Source
	assert.Equal(t, plain, compressed)
}

func TestDecodeSourceMissingFile(t *testing.T) {
	_, err := DecodeSource(model.SourceFile{Path: "/nope/void.fit", Format: model.FormatFIT})
	assert.Error(t, err)
}
