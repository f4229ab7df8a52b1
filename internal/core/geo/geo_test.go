package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
)

func TestSemicirclesToDegrees(t *testing.T) {
	tests := []struct {
		name     string
		raw      int32
		expected float64
		delta    float64
	}{
		{
			name:     "zero",
			raw:      0,
			expected: 0,
			delta:    0,
		},
		{
			name:     "positive_sixty_degrees",
			raw:      715827882, // 2^31 / 3, rounded down
			expected: 60.0,
			delta:    1e-6,
		},
		{
			name:     "negative_sixty_degrees",
			raw:      -715827882,
			expected: -60.0,
			delta:    1e-6,
		},
		{
			name:     "max_positive_just_under_180",
			raw:      2147483647,
			expected: 180.0,
			delta:    1e-6,
		},
		{
			name:     "min_negative_exactly_minus_180",
			raw:      -2147483648,
			expected: -180.0,
			delta:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SemicirclesToDegrees(tt.raw)
			assert.InDelta(t, tt.expected, got, tt.delta)
			assert.GreaterOrEqual(t, got, -180.0)
			assert.LessOrEqual(t, got, 180.0)
		})
	}
}

func TestSemicirclesToDegreesRoundTrip(t *testing.T) {
	// Inverse scale used by devices when encoding positions.
	const semicirclesPerDegree = 2147483648.0 / 180.0

	for _, deg := range []float64{0, 12.345678, -73.98, 50.0755, -0.0001} {
		raw := int32(deg * semicirclesPerDegree)
		assert.InDelta(t, deg, SemicirclesToDegrees(raw), 1e-6)
	}
}

func TestCentroid(t *testing.T) {
	t.Run("empty_has_no_centroid", func(t *testing.T) {
		_, ok := Centroid(nil)
		assert.False(t, ok)
	})

	t.Run("single_point_is_its_own_centroid", func(t *testing.T) {
		c, ok := Centroid([]model.TrackPoint{{Lat: 50.1, Lon: 14.4}})
		require.True(t, ok)
		assert.Equal(t, model.TrackPoint{Lat: 50.1, Lon: 14.4}, c)
	})

	t.Run("two_points_mean_is_exact", func(t *testing.T) {
		c, ok := Centroid([]model.TrackPoint{
			{Lat: 10.0, Lon: 20.0},
			{Lat: 20.0, Lon: 30.0},
		})
		require.True(t, ok)
		assert.Equal(t, 15.0, c.Lat)
		assert.Equal(t, 25.0, c.Lon)
	})

	t.Run("components_average_independently", func(t *testing.T) {
		c, ok := Centroid([]model.TrackPoint{
			{Lat: 0, Lon: 100},
			{Lat: 60, Lon: -100},
			{Lat: -60, Lon: 0},
		})
		require.True(t, ok)
		assert.InDelta(t, 0.0, c.Lat, 1e-12)
		assert.InDelta(t, 0.0, c.Lon, 1e-12)
	})
}

func TestHaversine(t *testing.T) {
	t.Run("zero_distance", func(t *testing.T) {
		p := model.TrackPoint{Lat: 50.0755, Lon: 14.4378}
		assert.Equal(t, 0.0, Haversine(p, p))
	})

	t.Run("one_degree_longitude_at_equator", func(t *testing.T) {
		d := Haversine(model.TrackPoint{Lat: 0, Lon: 0}, model.TrackPoint{Lat: 0, Lon: 1})
		assert.InDelta(t, 111.19, d, 0.1)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := model.TrackPoint{Lat: 50.0755, Lon: 14.4378}
		b := model.TrackPoint{Lat: 49.1951, Lon: 16.6068}
		assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
	})
}

func TestTrackDistance(t *testing.T) {
	assert.Equal(t, 0.0, TrackDistance(nil))
	assert.Equal(t, 0.0, TrackDistance([]model.TrackPoint{{Lat: 1, Lon: 1}}))

	points := []model.TrackPoint{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 0, Lon: 2},
	}
	assert.InDelta(t, 2*111.19, TrackDistance(points), 0.2)
}
