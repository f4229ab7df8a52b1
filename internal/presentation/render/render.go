// Package render writes the interactive HTML map page. The page is a
// single self-contained document built from an embedded template:
// activity data is inlined as JSON and Leaflet is loaded from the unpkg
// CDN, so the result can be opened straight from disk.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
)

//go:embed templates/map.html
var templateFS embed.FS

var mapTemplate = template.Must(template.New("map.html").ParseFS(templateFS, "templates/map.html"))

// Render modes for the generated map.
const (
	ModeHeatmap = "heatmap"
	ModeRoutes  = "routes"
)

const (
	defaultTitle = "Activity Map"
	defaultZoom  = 12

	// View used when the collection has no points to center on.
	fallbackZoom = 2

	startTimeLayout = "2006-01-02 15:04"
)

// Options control how the map page is built.
type Options struct {
	Mode  string // ModeHeatmap or ModeRoutes, defaults to ModeHeatmap
	Title string // page title, defaults to "Activity Map"
}

// ValidMode reports whether mode names a supported render mode.
func ValidMode(mode string) bool {
	return mode == ModeHeatmap || mode == ModeRoutes
}

// activityPayload is the JSON shape handed to the map script.
type activityPayload struct {
	Type   string       `json:"type"`
	Start  string       `json:"start,omitempty"`
	Source string       `json:"source"`
	Points [][2]float64 `json:"points"`
}

// marshalTemplateJS encodes a value as JSON and marks it safe for script
// context so html/template inlines the literal verbatim. ConfigStd keeps
// HTML escaping on, so a "</script>" inside a value cannot terminate the
// surrounding script element.
func marshalTemplateJS(value interface{}) (template.JS, error) {
	payload, err := sonic.ConfigStd.Marshal(value)
	if err != nil {
		return template.JS(""), err
	}
	return template.JS(payload), nil
}

// RenderMap writes the HTML map page for the collection to w.
func RenderMap(w io.Writer, collection model.ActivityCollection, opts Options) error {
	if opts.Mode == "" {
		opts.Mode = ModeHeatmap
	}
	if !ValidMode(opts.Mode) {
		return fmt.Errorf("unknown render mode %q (valid: %s, %s)", opts.Mode, ModeHeatmap, ModeRoutes)
	}
	if opts.Title == "" {
		opts.Title = defaultTitle
	}

	payload := make([]activityPayload, 0, len(collection.Activities))
	for i := range collection.Activities {
		act := &collection.Activities[i]
		points := make([][2]float64, 0, len(act.Points))
		for _, p := range act.Points {
			points = append(points, [2]float64{p.Lat, p.Lon})
		}
		entry := activityPayload{
			Type:   act.Type,
			Source: filepath.Base(act.Source),
			Points: points,
		}
		if act.HasStartTime() {
			entry.Start = act.StartTime.Format(startTimeLayout)
		}
		payload = append(payload, entry)
	}

	activitiesJSON, err := marshalTemplateJS(payload)
	if err != nil {
		return fmt.Errorf("marshal activities: %w", err)
	}

	centerLat, centerLon := collection.Centroid.Lat, collection.Centroid.Lon
	zoom := defaultZoom
	if !collection.HasCentroid {
		centerLat, centerLon = 0, 0
		zoom = fallbackZoom
	}

	data := struct {
		Title          string
		Mode           string
		CenterLat      float64
		CenterLon      float64
		Zoom           int
		ActivityCount  int
		PointCount     int
		ActivitiesJSON template.JS
	}{
		Title:          opts.Title,
		Mode:           opts.Mode,
		CenterLat:      centerLat,
		CenterLon:      centerLon,
		Zoom:           zoom,
		ActivityCount:  len(collection.Activities),
		PointCount:     collection.TotalPoints(),
		ActivitiesJSON: activitiesJSON,
	}

	// Render into a buffer first so a template failure leaves w untouched.
	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute map template: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// WriteMap renders the map page into the file at path, creating parent
// directories as needed. The page is rendered fully before the file is
// touched, so a render failure leaves nothing behind.
func WriteMap(path string, collection model.ActivityCollection, opts Options) error {
	var buf bytes.Buffer
	if err := RenderMap(&buf, collection, opts); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
