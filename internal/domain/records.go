package domain

import (
	"strings"
	"time"
)

// ReadingKey is the identity triple used to deduplicate canonical readings.
// Two ingestions bearing the same key replace rather than duplicate.
type ReadingKey struct {
	DeviceIMEI string
	Timestamp  time.Time
	Provider   string
}

// SensorReading is the canonical sensor record derived from a payload.
// DeviceIMEI is the stable device key, DeviceID the human-readable name.
type SensorReading struct {
	DeviceIMEI   string    `json:"deviceimei"`
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	DeviceID     string    `json:"device_id"`
	Type         string    `json:"type"`
	TemperatureC float64   `json:"temperature"`
	HumidityPct  *float64  `json:"humidity"`
	LightLux     *float64  `json:"light_level"`
}

// Key returns the reading's identity triple.
func (r SensorReading) Key() ReadingKey {
	return ReadingKey{DeviceIMEI: r.DeviceIMEI, Timestamp: r.Timestamp, Provider: r.Provider}
}

// LocationReading is the canonical location record derived from a payload.
type LocationReading struct {
	DeviceIMEI       string    `json:"deviceimei"`
	Timestamp        time.Time `json:"timestamp"`
	Provider         string    `json:"provider"`
	DeviceID         string    `json:"device_id"`
	Type             string    `json:"type"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	AccuracyM        *float64  `json:"location_accuracy"`
	Source           *string   `json:"location_source"`
	BatteryPct       *int64    `json:"battery_level"`
	CellularDbm      *float64  `json:"cellular_dbm"`
	WifiAccessPoints *int64    `json:"wifi_access_points"`
}

// Key returns the reading's identity triple.
func (r LocationReading) Key() ReadingKey {
	return ReadingKey{DeviceIMEI: r.DeviceIMEI, Timestamp: r.Timestamp, Provider: r.Provider}
}

// RawAuditRecord is the immutable append-only copy of a payload that passed
// validation, kept for traceability. Never updated or deleted.
type RawAuditRecord struct {
	Provider       string
	DeviceIMEI     string
	DeviceName     string
	EntryTimeEpoch int64
	Payload        []byte
	Warnings       *string // joined with "; ", nil when none
}

// NewAuditRecord captures the original payload bytes and any validation
// warnings. Warnings are joined into a single string only here, at the
// storage boundary.
func NewAuditRecord(p Payload, raw []byte, warnings []string) RawAuditRecord {
	rec := RawAuditRecord{
		Provider:       Provider,
		DeviceIMEI:     p.DeviceID,
		DeviceName:     p.DeviceName,
		EntryTimeEpoch: p.EntryTimeEpoch,
		Payload:        raw,
	}
	if len(warnings) > 0 {
		joined := strings.Join(warnings, "; ")
		rec.Warnings = &joined
	}
	return rec
}
