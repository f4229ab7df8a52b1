package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Format identifies the on-disk encoding of an activity file.
type Format int

const (
	FormatFIT Format = iota
	FormatGPX
)

func (f Format) String() string {
	switch f {
	case FormatFIT:
		return "fit"
	case FormatGPX:
		return "gpx"
	default:
		return "unknown"
	}
}

// SourceFile is one candidate activity file discovered by the scanner.
type SourceFile struct {
	Path       string `json:"path"`
	Format     Format `json:"format"`
	Compressed bool   `json:"compressed"`
}

// TrackPoint is a single recorded position in decimal degrees.
type TrackPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Activity is one decoded recording: the ordered track positions plus
// the metadata used for filtering and reporting.
type Activity struct {
	Points    []TrackPoint `json:"points"`
	Type      string       `json:"type"`
	StartTime time.Time    `json:"start_time"`
	Source    string       `json:"source"`
}

// HasStartTime reports whether the recording carried a usable start instant.
func (a Activity) HasStartTime() bool {
	return !a.StartTime.IsZero()
}

// NormalizeActivityType maps a raw sport or track type label to its display
// form: trimmed, first letter upper, remainder lower. Empty input maps to
// ActivityTypeUnknown.
func NormalizeActivityType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ActivityTypeUnknown
	}
	lower := strings.ToLower(raw)
	first, size := utf8.DecodeRuneInString(lower)
	if first == utf8.RuneError {
		return ActivityTypeUnknown
	}
	return string(unicode.ToUpper(first)) + lower[size:]
}
