package model

// Activity type labels
const (
	ActivityTypeUnknown = "Unknown"
)

// Recognized file suffixes (lower case; matching is case-insensitive)
const (
	ExtFIT   = ".fit"
	ExtFITGz = ".fit.gz"
	ExtGPX   = ".gpx"
	ExtGPXGz = ".gpx.gz"
)
