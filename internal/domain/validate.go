package domain

import (
	"errors"
	"time"
)

const (
	// maxFutureSkew is how far ahead of processing time an event may claim
	// to be before it draws a warning.
	maxFutureSkew = 24 * time.Hour

	// maxAge is how far in the past an event may be before it draws a
	// warning. Tive trackers buffer while out of coverage, so old events
	// are plausible; five years is not.
	maxAge = 5 * 365 * 24 * time.Hour
)

// CheckLatLng returns a non-nil error when a coordinate is outside the
// WGS-84 range. A bad coordinate rejects the whole ingestion; there is no
// partial persistence.
func CheckLatLng(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return errors.New("invalid latitude (must be -90..90)")
	}
	if lng < -180 || lng > 180 {
		return errors.New("invalid longitude (must be -180..180)")
	}
	return nil
}

// TimestampWarnings checks event-time plausibility against the package
// clock. Warnings are advisory only and never block persistence; the two
// checks are independent.
func TimestampWarnings(epochMs int64) []string {
	now := clock.Now()
	t := time.UnixMilli(epochMs)

	var warnings []string
	if t.After(now.Add(maxFutureSkew)) {
		warnings = append(warnings, "timestamp far in the future")
	}
	if t.Before(now.Add(-maxAge)) {
		warnings = append(warnings, "timestamp very old")
	}
	return warnings
}
