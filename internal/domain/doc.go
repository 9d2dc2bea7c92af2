// Package domain models Tive tracker telemetry and its two canonical
// reading shapes.
//
// # Data Source
//
// Tive cellular trackers push device events to a per-customer webhook.
// Each event carries identity fields (DeviceId, DeviceName), an
// EntryTimeEpoch in milliseconds, a required Temperature block, a required
// Location block, and optional Humidity, Light, Battery and Cellular
// blocks. Optional blocks arrive either fully populated, as JSON null, or
// not at all; null and absence both mean "no data".
//
// # Field Conventions
//
// DeviceId is the stable hardware identifier (an IMEI for cellular
// trackers) and is stored as the key field "deviceimei" on every record.
// DeviceName is the customer-assigned label and is stored as the
// human-readable "device_id" field. Both canonical records also replicate
// the provider name and event timestamp so each is self-describing
// independent of its audit-record sibling.
//
// Measurements:
//
//	Temperature.Celsius           required real, stored at 2 decimals
//	Humidity.Percentage           optional real, stored at 1 decimal
//	Light.Lux                     optional real, stored at 1 decimal
//	Battery.Percentage            optional integer 0-100
//	Cellular.Dbm                  optional real (signal strength)
//	Location.Latitude/Longitude   required reals, WGS-84, stored as reported
//	Location.Accuracy.Meters      optional real
//	Location.LocationMethod       optional string (e.g. "Gps", "CellId")
//	Location.WifiAccessPointUsedCount  optional integer
//
// Rounding is half away from zero on the scaled value (multiply by 10^d,
// round to the nearest integer, divide back), so stored values are
// byte-identical across re-ingestions of the same payload.
//
// # Identity
//
// Canonical readings are keyed by (deviceimei, timestamp, provider).
// Re-ingesting the same triple fully replaces the previous record. The
// provider name is the constant "Tive" for this integration.
//
// # Plausibility
//
// Coordinates outside their WGS-84 ranges reject the whole ingestion.
// Event times more than 24 hours ahead of processing time, or more than
// five years behind it, only draw warnings: trackers buffer while out of
// coverage, so stale events are expected and must still persist.
package domain
