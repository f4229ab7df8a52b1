package decoder

import (
	"fmt"
	"io"

	fitdecoder "github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/basetype"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/geo"
	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
)

// FITDecoder decodes Garmin FIT activity streams.
//
// Record messages contribute track points: a record missing either
// coordinate (the sint32 invalid sentinel) is skipped without touching
// the rest of the stream. Session messages contribute the sport label
// and start instant; when a stream carries several sessions the last
// one wins.
type FITDecoder struct{}

func (d *FITDecoder) Decode(r io.Reader) (model.Activity, error) {
	dec := fitdecoder.New(r)
	fit, err := dec.Decode()
	if err != nil {
		return model.Activity{}, fmt.Errorf("decode fit stream: %w", err)
	}

	activity := model.Activity{Type: model.ActivityTypeUnknown}
	for i := range fit.Messages {
		mesg := &fit.Messages[i]
		switch mesg.Num {
		case typedef.MesgNumRecord:
			rec := mesgdef.NewRecord(mesg)
			if rec.PositionLat == basetype.Sint32Invalid || rec.PositionLong == basetype.Sint32Invalid {
				continue
			}
			activity.Points = append(activity.Points, model.TrackPoint{
				Lat: geo.SemicirclesToDegrees(rec.PositionLat),
				Lon: geo.SemicirclesToDegrees(rec.PositionLong),
			})
		case typedef.MesgNumSession:
			ses := mesgdef.NewSession(mesg)
			if ses.Sport != typedef.SportInvalid {
				activity.Type = model.NormalizeActivityType(ses.Sport.String())
			}
			if !ses.StartTime.IsZero() {
				activity.StartTime = ses.StartTime
			}
		}
	}

	return activity, nil
}
