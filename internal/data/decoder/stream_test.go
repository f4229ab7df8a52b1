package decoder

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
	"github.com/jindracerny/gpx-plot-on-map/internal/testing/fixtures"
)

func TestOpenPlainFile(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())
	path, err := gen.GenerateGPX("plain.gpx", fixtures.GPXSpec{
		Segments: [][]model.TrackPoint{{{Lat: 1, Lon: 2}}},
	})
	require.NoError(t, err)

	r, err := Open(model.SourceFile{Path: path, Format: model.FormatGPX})
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<gpx")
}

func TestOpenGzippedFileYieldsIdenticalBytes(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())
	path, err := gen.GenerateGPX("track.gpx", fixtures.GPXSpec{
		TrackType: "running",
		Segments:  [][]model.TrackPoint{{{Lat: 50.1, Lon: 14.4}, {Lat: 50.2, Lon: 14.5}}},
	})
	require.NoError(t, err)

	gzPath, err := gen.GzipCopy(path)
	require.NoError(t, err)

	plain, err := os.ReadFile(path)
	require.NoError(t, err)

	r, err := Open(model.SourceFile{Path: gzPath, Format: model.FormatGPX, Compressed: true})
	require.NoError(t, err)
	defer r.Close()

	unwrapped, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, plain, unwrapped, "decompressed stream must match the plain file byte for byte")
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(model.SourceFile{Path: "/does/not/exist.gpx", Format: model.FormatGPX})
	assert.Error(t, err)
}

func TestOpenTruncatedGzip(t *testing.T) {
	gen := fixtures.NewActivityDataGenerator(t.TempDir())
	path, err := gen.GenerateCorruptFile("fake.gpx.gz")
	require.NoError(t, err)

	_, err = Open(model.SourceFile{Path: path, Format: model.FormatGPX, Compressed: true})
	assert.Error(t, err, "a stream without a gzip header must fail at open time")
}
