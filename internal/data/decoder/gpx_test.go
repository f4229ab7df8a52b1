package decoder

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
	"github.com/jindracerny/gpx-plot-on-map/internal/testing/fixtures"
)

func decodeGPXFile(t *testing.T, path string) (model.Activity, error) {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	d := &GPXDecoder{}
	return d.Decode(file)
}

func TestGPXDecoderSingleTrack(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())
	start := time.Date(2023, 6, 1, 8, 30, 0, 0, time.UTC)

	path, err := gen.GenerateGPX("morning.gpx", fixtures.GPXSpec{
		TrackType: "running",
		StartTime: start,
		Segments: [][]model.TrackPoint{
			{
				{Lat: 50.0755, Lon: 14.4378},
				{Lat: 50.0760, Lon: 14.4380},
				{Lat: 50.0765, Lon: 14.4385},
			},
		},
	})
	require.NoError(t, err)

	activity, err := decodeGPXFile(t, path)
	require.NoError(t, err)

	require.Len(t, activity.Points, 3)
	assert.InDelta(t, 50.0755, activity.Points[0].Lat, 1e-6)
	assert.InDelta(t, 14.4385, activity.Points[2].Lon, 1e-6)

	assert.Equal(t, "Running", activity.Type)
	assert.True(t, start.Equal(activity.StartTime))
}

func TestGPXDecoderFlattensSegmentsInOrder(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())

	path, err := gen.GenerateGPX("segments.gpx", fixtures.GPXSpec{
		TrackType: "cycling",
		Segments: [][]model.TrackPoint{
			{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}},
			{{Lat: 3, Lon: 3}},
			{{Lat: 4, Lon: 4}, {Lat: 5, Lon: 5}},
		},
	})
	require.NoError(t, err)

	activity, err := decodeGPXFile(t, path)
	require.NoError(t, err)

	require.Len(t, activity.Points, 5)
	for i, p := range activity.Points {
		assert.InDelta(t, float64(i+1), p.Lat, 1e-6, "points must keep document order")
	}
}

func TestGPXDecoderWithoutType(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())

	path, err := gen.GenerateGPX("untyped.gpx", fixtures.GPXSpec{
		Segments: [][]model.TrackPoint{
			{{Lat: 50.0, Lon: 14.0}},
		},
	})
	require.NoError(t, err)

	activity, err := decodeGPXFile(t, path)
	require.NoError(t, err)

	assert.Equal(t, model.ActivityTypeUnknown, activity.Type)
}

func TestGPXDecoderWithoutTimestamps(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())

	path, err := gen.GenerateGPX("untimed.gpx", fixtures.GPXSpec{
		TrackType: "walking",
		Segments: [][]model.TrackPoint{
			{{Lat: 50.0, Lon: 14.0}, {Lat: 50.1, Lon: 14.1}},
		},
	})
	require.NoError(t, err)

	activity, err := decodeGPXFile(t, path)
	require.NoError(t, err)

	assert.False(t, activity.HasStartTime())
	assert.Len(t, activity.Points, 2)
}

func TestGPXDecoderEmptyDocument(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())

	path, err := gen.GenerateGPX("empty.gpx", fixtures.GPXSpec{})
	require.NoError(t, err)

	activity, err := decodeGPXFile(t, path)
	require.NoError(t, err)

	assert.Empty(t, activity.Points)
	assert.Equal(t, model.ActivityTypeUnknown, activity.Type)
	assert.False(t, activity.HasStartTime())
}

func TestGPXDecoderMalformedDocument(t *testing.T) {
	d := &GPXDecoder{}
	_, err := d.Decode(strings.NewReader("<gpx><trk><trkseg><trkpt"))
	assert.Error(t, err)
}

func TestGPXDecoderIsIdempotent(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())

	path, err := gen.GenerateGPX("repeat.gpx", fixtures.GPXSpec{
		TrackType: "hiking",
		StartTime: time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC),
		Segments: [][]model.TrackPoint{
			{{Lat: 46.5, Lon: 8.0}, {Lat: 46.6, Lon: 8.1}},
		},
	})
	require.NoError(t, err)

	firstPass, err := decodeGPXFile(t, path)
	require.NoError(t, err)
	secondPass, err := decodeGPXFile(t, path)
	require.NoError(t, err)

	assert.Equal(t, firstPass, secondPass)
}
