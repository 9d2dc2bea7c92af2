package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sensorReading(temp float64) domain.SensorReading {
	return domain.SensorReading{
		DeviceIMEI:   "D1",
		Timestamp:    time.UnixMilli(1700000000000).UTC(),
		Provider:     "Tive",
		DeviceID:     "Truck1",
		Type:         "Active",
		TemperatureC: temp,
	}
}

func locationReading(lat, lng float64) domain.LocationReading {
	return domain.LocationReading{
		DeviceIMEI: "D1",
		Timestamp:  time.UnixMilli(1700000000000).UTC(),
		Provider:   "Tive",
		DeviceID:   "Truck1",
		Type:       "Active",
		Latitude:   lat,
		Longitude:  lng,
	}
}

func TestSQLiteStore_Ping(t *testing.T) {
	s := newTestSQLiteStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestSQLiteStore_AppendAudit_AppendOnly(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := domain.RawAuditRecord{
		Provider:       "Tive",
		DeviceIMEI:     "D1",
		DeviceName:     "Truck1",
		EntryTimeEpoch: 1700000000000,
		Payload:        []byte(`{"DeviceId":"D1"}`),
	}

	id1, err := s.AppendAudit(ctx, rec)
	require.NoError(t, err)
	id2, err := s.AppendAudit(ctx, rec)
	require.NoError(t, err)

	// Two deliveries of the same payload: two rows, two ids.
	assert.NotEqual(t, id1, id2)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM raw_webhook_events`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLiteStore_AppendAudit_Warnings(t *testing.T) {
	s := newTestSQLiteStore(t)

	warnings := "timestamp very old"
	_, err := s.AppendAudit(context.Background(), domain.RawAuditRecord{
		Provider:   "Tive",
		DeviceIMEI: "D1",
		DeviceName: "Truck1",
		Payload:    []byte(`{}`),
		Warnings:   &warnings,
	})
	require.NoError(t, err)

	var stored *string
	require.NoError(t, s.db.QueryRow(`SELECT warnings FROM raw_webhook_events`).Scan(&stored))
	require.NotNil(t, stored)
	assert.Equal(t, "timestamp very old", *stored)

	// Absent warnings persist as NULL, not empty string.
	_, err = s.AppendAudit(context.Background(), domain.RawAuditRecord{
		Provider: "Tive", DeviceIMEI: "D2", DeviceName: "Truck2", Payload: []byte(`{}`),
	})
	require.NoError(t, err)
	var nullCount int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM raw_webhook_events WHERE warnings IS NULL`).Scan(&nullCount))
	assert.Equal(t, 1, nullCount)
}

func TestSQLiteStore_UpsertSensorReading_Idempotent(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	id1, err := s.UpsertSensorReading(ctx, sensorReading(20.0))
	require.NoError(t, err)
	id2, err := s.UpsertSensorReading(ctx, sensorReading(21.5))
	require.NoError(t, err)

	// Same identity key: same row, same id, latest values win.
	assert.Equal(t, id1, id2)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM px_sensor_events`).Scan(&count))
	assert.Equal(t, 1, count)

	var temp float64
	require.NoError(t, s.db.QueryRow(`SELECT temperature FROM px_sensor_events WHERE id = ?`, id1).Scan(&temp))
	assert.Equal(t, 21.5, temp)
}

func TestSQLiteStore_UpsertSensorReading_DistinctKeys(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	r1 := sensorReading(20.0)
	r2 := sensorReading(20.0)
	r2.Timestamp = r2.Timestamp.Add(time.Minute)

	id1, err := s.UpsertSensorReading(ctx, r1)
	require.NoError(t, err)
	id2, err := s.UpsertSensorReading(ctx, r2)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM px_sensor_events`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLiteStore_UpsertLocationReading_Idempotent(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	id1, err := s.UpsertLocationReading(ctx, locationReading(40.0, -70.0))
	require.NoError(t, err)
	id2, err := s.UpsertLocationReading(ctx, locationReading(41.0, -71.0))
	require.NoError(t, err)

	assert.Equal(t, id1, id2)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM px_location_events`).Scan(&count))
	assert.Equal(t, 1, count)

	var lat, lng float64
	require.NoError(t, s.db.QueryRow(`SELECT latitude, longitude FROM px_location_events WHERE id = ?`, id1).Scan(&lat, &lng))
	assert.Equal(t, 41.0, lat)
	assert.Equal(t, -71.0, lng)
}

func TestSQLiteStore_UpsertLocationReading_NullOptionals(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	accuracy := 12.5
	source := "GPS"
	battery := int64(80)
	r := locationReading(40.0, -70.0)
	r.AccuracyM = &accuracy
	r.Source = &source
	r.BatteryPct = &battery

	id, err := s.UpsertLocationReading(ctx, r)
	require.NoError(t, err)

	var gotAccuracy *float64
	var gotSource *string
	var gotBattery *int64
	var gotDbm *float64
	require.NoError(t, s.db.QueryRow(
		`SELECT location_accuracy, location_source, battery_level, cellular_dbm FROM px_location_events WHERE id = ?`, id,
	).Scan(&gotAccuracy, &gotSource, &gotBattery, &gotDbm))

	require.NotNil(t, gotAccuracy)
	assert.Equal(t, 12.5, *gotAccuracy)
	require.NotNil(t, gotSource)
	assert.Equal(t, "GPS", *gotSource)
	require.NotNil(t, gotBattery)
	assert.Equal(t, int64(80), *gotBattery)
	assert.Nil(t, gotDbm)
}
