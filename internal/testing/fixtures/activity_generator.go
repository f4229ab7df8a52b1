// Package fixtures generates activity files for tests: GPX documents,
// FIT recordings built with the reference encoder, gzip variants and
// deliberately broken files.
package fixtures

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
)

// Degrees -> semicircles scale used by devices when encoding positions.
const semicirclesPerDegree = 2147483648.0 / 180.0

// GPXSpec describes one generated GPX document.
type GPXSpec struct {
	TrackType string               // omitted from the document when empty
	StartTime time.Time            // per-point times start here; zero omits times entirely
	Segments  [][]model.TrackPoint // one <trkseg> per entry, all inside a single <trk>
}

// FITRecord is one record message. Coordinates are decimal degrees;
// omitted coordinates are encoded as the FIT invalid sentinel.
type FITRecord struct {
	Lat     float64
	Lon     float64
	OmitLat bool
	OmitLon bool
}

// FITSession is one session summary message.
type FITSession struct {
	Sport     typedef.Sport
	StartTime time.Time
}

// FITSpec describes one generated FIT recording.
type FITSpec struct {
	Records  []FITRecord
	Sessions []FITSession // appended after the records, in order
}

// ActivityDataGenerator writes activity fixtures under a base directory.
type ActivityDataGenerator struct {
	baseDir string
}

// NewActivityDataGenerator creates a new fixture generator.
func NewActivityDataGenerator(baseDir string) *ActivityDataGenerator {
	return &ActivityDataGenerator{
		baseDir: baseDir,
	}
}

// GetBaseDir returns the base directory for fixture data.
func (g *ActivityDataGenerator) GetBaseDir() string {
	return g.baseDir
}

// GenerateGPX writes a GPX 1.1 document and returns its full path.
func (g *ActivityDataGenerator) GenerateGPX(relPath string, spec GPXSpec) (string, error) {
	fullPath := filepath.Join(g.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	fmt.Fprintln(file, `<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintln(file, `<gpx version="1.1" creator="fixtures" xmlns="http://www.topografix.com/GPX/1/1">`)
	fmt.Fprintln(file, ` <trk>`)
	if spec.TrackType != "" {
		fmt.Fprintf(file, "  <type>%s</type>\n", spec.TrackType)
	}

	pointIndex := 0
	for _, segment := range spec.Segments {
		fmt.Fprintln(file, `  <trkseg>`)
		for _, p := range segment {
			if spec.StartTime.IsZero() {
				fmt.Fprintf(file, "   <trkpt lat=\"%.7f\" lon=\"%.7f\"></trkpt>\n", p.Lat, p.Lon)
			} else {
				ts := spec.StartTime.Add(time.Duration(pointIndex) * time.Second)
				fmt.Fprintf(file, "   <trkpt lat=\"%.7f\" lon=\"%.7f\"><time>%s</time></trkpt>\n",
					p.Lat, p.Lon, ts.UTC().Format(time.RFC3339))
			}
			pointIndex++
		}
		fmt.Fprintln(file, `  </trkseg>`)
	}

	fmt.Fprintln(file, ` </trk>`)
	fmt.Fprintln(file, `</gpx>`)
	return fullPath, nil
}

// GenerateFIT writes a FIT recording and returns its full path. The
// file carries a file_id header, then the records, then the sessions.
func (g *ActivityDataGenerator) GenerateFIT(relPath string, spec FITSpec) (string, error) {
	fullPath := filepath.Join(g.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	fit := proto.FIT{}

	fileId := mesgdef.NewFileId(nil)
	fileId.Type = typedef.FileActivity
	fileId.Manufacturer = typedef.ManufacturerDevelopment
	fileId.SerialNumber = 12345
	fileId.TimeCreated = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	fit.Messages = append(fit.Messages, fileId.ToMesg(nil))

	for _, r := range spec.Records {
		rec := mesgdef.NewRecord(nil)
		if !r.OmitLat {
			rec.PositionLat = int32(r.Lat * semicirclesPerDegree)
		}
		if !r.OmitLon {
			rec.PositionLong = int32(r.Lon * semicirclesPerDegree)
		}
		fit.Messages = append(fit.Messages, rec.ToMesg(nil))
	}

	for _, s := range spec.Sessions {
		ses := mesgdef.NewSession(nil)
		ses.Sport = s.Sport
		ses.StartTime = s.StartTime
		fit.Messages = append(fit.Messages, ses.ToMesg(nil))
	}

	enc := encoder.New(file)
	if err := enc.Encode(&fit); err != nil {
		return "", err
	}
	return fullPath, nil
}

// GenerateCorruptFile writes bytes no decoder can make sense of.
func (g *ActivityDataGenerator) GenerateCorruptFile(relPath string) (string, error) {
	fullPath := filepath.Join(g.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}
	err := os.WriteFile(fullPath, []byte("this is not an activity recording\x00\x01\x02"), 0644)
	if err != nil {
		return "", err
	}
	return fullPath, nil
}

// GzipCopy compresses an existing fixture into a sibling .gz file and
// returns the new path.
func (g *ActivityDataGenerator) GzipCopy(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	gzPath := path + ".gz"
	file, err := os.Create(gzPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(data); err != nil {
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	return gzPath, nil
}

// CleanupTestData removes all generated fixture data.
func (g *ActivityDataGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}
