package domain

import "time"

// Provider is the fixed provider name stamped on every record produced by
// this integration.
const Provider = "Tive"

// Payload is a schema-valid Tive tracker event. Optional measurements are
// pointers; nil means the device did not report the value, which is
// distinct from a measured zero.
type Payload struct {
	DeviceID       string
	DeviceName     string
	EntryTimeEpoch int64 // milliseconds
	TemperatureC   float64
	HumidityPct    *float64
	LightLux       *float64
	BatteryPct     *int64
	CellularDbm    *float64
	Location       PayloadLocation
}

// PayloadLocation is the location block of a Tive event.
type PayloadLocation struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress *string
	LocationMethod   *string
	AccuracyM        *float64
	WifiAccessPoints *int64
}

// EventTime converts the entry epoch to a UTC timestamp.
func (p Payload) EventTime() time.Time {
	return time.UnixMilli(p.EntryTimeEpoch).UTC()
}
