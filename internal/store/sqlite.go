package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
)

// SQLiteStore implements Store on modernc.org/sqlite, for local
// development and tests. Timestamps are stored as epoch milliseconds.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS raw_webhook_events (
	id               TEXT PRIMARY KEY,
	provider         TEXT NOT NULL,
	deviceimei       TEXT NOT NULL,
	device_name      TEXT NOT NULL,
	entry_time_epoch INTEGER NOT NULL,
	payload          TEXT NOT NULL,
	warnings         TEXT,
	received_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_raw_webhook_events_device ON raw_webhook_events(deviceimei, entry_time_epoch);

CREATE TABLE IF NOT EXISTS px_sensor_events (
	id          TEXT PRIMARY KEY,
	deviceimei  TEXT NOT NULL,
	ts          INTEGER NOT NULL,
	provider    TEXT NOT NULL,
	device_id   TEXT NOT NULL,
	type        TEXT NOT NULL,
	temperature REAL NOT NULL,
	humidity    REAL,
	light_level REAL,
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (deviceimei, ts, provider)
);

CREATE TABLE IF NOT EXISTS px_location_events (
	id                 TEXT PRIMARY KEY,
	deviceimei         TEXT NOT NULL,
	ts                 INTEGER NOT NULL,
	provider           TEXT NOT NULL,
	device_id          TEXT NOT NULL,
	type               TEXT NOT NULL,
	latitude           REAL NOT NULL,
	longitude          REAL NOT NULL,
	location_accuracy  REAL,
	location_source    TEXT,
	battery_level      INTEGER,
	cellular_dbm       REAL,
	wifi_access_points INTEGER,
	updated_at         DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (deviceimei, ts, provider)
);
`

// NewSQLite opens the database at dsn, configures WAL mode and runs the
// embedded migration. A single connection keeps write serialization simple.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: exec %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendAudit(ctx context.Context, rec domain.RawAuditRecord) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO raw_webhook_events (id, provider, deviceimei, device_name, entry_time_epoch, payload, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Provider, rec.DeviceIMEI, rec.DeviceName, rec.EntryTimeEpoch, string(rec.Payload), rec.Warnings,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: append audit: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) UpsertSensorReading(ctx context.Context, r domain.SensorReading) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO px_sensor_events (id, deviceimei, ts, provider, device_id, type, temperature, humidity, light_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (deviceimei, ts, provider) DO UPDATE SET
		   device_id = excluded.device_id, type = excluded.type,
		   temperature = excluded.temperature, humidity = excluded.humidity,
		   light_level = excluded.light_level, updated_at = datetime('now')
		 RETURNING id`,
		uuid.NewString(), r.DeviceIMEI, r.Timestamp.UnixMilli(), r.Provider, r.DeviceID, r.Type,
		r.TemperatureC, r.HumidityPct, r.LightLux,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("sqlite: upsert sensor reading: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) UpsertLocationReading(ctx context.Context, r domain.LocationReading) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO px_location_events (id, deviceimei, ts, provider, device_id, type, latitude, longitude, location_accuracy, location_source, battery_level, cellular_dbm, wifi_access_points)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (deviceimei, ts, provider) DO UPDATE SET
		   device_id = excluded.device_id, type = excluded.type,
		   latitude = excluded.latitude, longitude = excluded.longitude,
		   location_accuracy = excluded.location_accuracy,
		   location_source = excluded.location_source,
		   battery_level = excluded.battery_level,
		   cellular_dbm = excluded.cellular_dbm,
		   wifi_access_points = excluded.wifi_access_points,
		   updated_at = datetime('now')
		 RETURNING id`,
		uuid.NewString(), r.DeviceIMEI, r.Timestamp.UnixMilli(), r.Provider, r.DeviceID, r.Type,
		r.Latitude, r.Longitude, r.AccuracyM, r.Source,
		r.BatteryPct, r.CellularDbm, r.WifiAccessPoints,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("sqlite: upsert location reading: %w", err)
	}
	return id, nil
}
