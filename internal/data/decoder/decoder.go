// Package decoder turns raw activity streams into decoded activities.
// One decoder exists per source format; selection is by the scanner's
// classification, never by content sniffing.
package decoder

import (
	"fmt"
	"io"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
)

// Decoder decodes one activity stream.
type Decoder interface {
	Decode(r io.Reader) (model.Activity, error)
}

// Decoders are stateless and shared between goroutines.
var registry = map[model.Format]Decoder{
	model.FormatFIT: &FITDecoder{},
	model.FormatGPX: &GPXDecoder{},
}

// ForFormat returns the decoder registered for a source format.
func ForFormat(format model.Format) (Decoder, error) {
	d, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("no decoder registered for format %q", format)
	}
	return d, nil
}

// DecodeSource opens, optionally decompresses and decodes one source
// file end to end. The stream is closed on every path.
func DecodeSource(src model.SourceFile) (model.Activity, error) {
	d, err := ForFormat(src.Format)
	if err != nil {
		return model.Activity{}, err
	}

	r, err := Open(src)
	if err != nil {
		return model.Activity{}, err
	}
	defer r.Close()

	activity, err := d.Decode(r)
	if err != nil {
		return model.Activity{}, err
	}
	activity.Source = src.Path
	return activity, nil
}
