package decoder

import (
	"fmt"
	"io"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
)

// GPXDecoder decodes GPX documents.
//
// All tracks and segments are flattened into one point sequence in
// document order. The start instant comes from the document's time
// bounds, the type label from the first track's declared type.
type GPXDecoder struct{}

func (d *GPXDecoder) Decode(r io.Reader) (model.Activity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Activity{}, fmt.Errorf("read gpx stream: %w", err)
	}

	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return model.Activity{}, fmt.Errorf("parse gpx document: %w", err)
	}

	activity := model.Activity{Type: model.ActivityTypeUnknown}
	for _, track := range doc.Tracks {
		for _, segment := range track.Segments {
			for i := range segment.Points {
				p := &segment.Points[i]
				activity.Points = append(activity.Points, model.TrackPoint{
					Lat: p.Point.Latitude,
					Lon: p.Point.Longitude,
				})
			}
		}
	}

	if len(doc.Tracks) > 0 && doc.Tracks[0].Type != "" {
		activity.Type = model.NormalizeActivityType(doc.Tracks[0].Type)
	}

	activity.StartTime = doc.TimeBounds().StartTime
	return activity, nil
}
