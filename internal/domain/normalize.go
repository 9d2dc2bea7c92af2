package domain

import "math"

// readingType matches the record type Tive assigns to live tracker events.
const readingType = "Active"

// ToSensorReading maps a schema-valid payload onto the canonical sensor
// record. Pure and deterministic; domain validation has no bearing here.
// Temperature keeps 2 decimal places, humidity and light 1.
func ToSensorReading(p Payload) SensorReading {
	return SensorReading{
		DeviceIMEI:   p.DeviceID,
		Timestamp:    p.EventTime(),
		Provider:     Provider,
		DeviceID:     p.DeviceName,
		Type:         readingType,
		TemperatureC: roundTo(p.TemperatureC, 2),
		HumidityPct:  roundOpt(p.HumidityPct, 1),
		LightLux:     roundOpt(p.LightLux, 1),
	}
}

// ToLocationReading maps a schema-valid payload onto the canonical location
// record. Coordinates are stored as reported, without rounding.
func ToLocationReading(p Payload) LocationReading {
	return LocationReading{
		DeviceIMEI:       p.DeviceID,
		Timestamp:        p.EventTime(),
		Provider:         Provider,
		DeviceID:         p.DeviceName,
		Type:             readingType,
		Latitude:         p.Location.Latitude,
		Longitude:        p.Location.Longitude,
		AccuracyM:        p.Location.AccuracyM,
		Source:           p.Location.LocationMethod,
		BatteryPct:       p.BatteryPct,
		CellularDbm:      p.CellularDbm,
		WifiAccessPoints: p.Location.WifiAccessPoints,
	}
}

// roundTo rounds half away from zero at d decimal places: scale up, round
// to the nearest integer, scale back.
func roundTo(v float64, d int) float64 {
	scale := math.Pow(10, float64(d))
	return math.Round(v*scale) / scale
}

// roundOpt rounds an optional value, preserving "not reported".
func roundOpt(v *float64, d int) *float64 {
	if v == nil {
		return nil
	}
	r := roundTo(*v, d)
	return &r
}
