package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
)

// pgPool is the slice of pgxpool.Pool the store uses, small enough for
// pgxmock to stand in during tests.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool pgPool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS raw_webhook_events (
	id               TEXT PRIMARY KEY,
	provider         TEXT NOT NULL,
	deviceimei       TEXT NOT NULL,
	device_name      TEXT NOT NULL,
	entry_time_epoch BIGINT NOT NULL,
	payload          JSONB NOT NULL,
	warnings         TEXT,
	received_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_raw_webhook_events_device ON raw_webhook_events(deviceimei, entry_time_epoch);

CREATE TABLE IF NOT EXISTS px_sensor_events (
	id          TEXT PRIMARY KEY,
	deviceimei  TEXT NOT NULL,
	ts          TIMESTAMPTZ NOT NULL,
	provider    TEXT NOT NULL,
	device_id   TEXT NOT NULL,
	type        TEXT NOT NULL,
	temperature DOUBLE PRECISION NOT NULL,
	humidity    DOUBLE PRECISION,
	light_level DOUBLE PRECISION,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (deviceimei, ts, provider)
);

CREATE TABLE IF NOT EXISTS px_location_events (
	id                 TEXT PRIMARY KEY,
	deviceimei         TEXT NOT NULL,
	ts                 TIMESTAMPTZ NOT NULL,
	provider           TEXT NOT NULL,
	device_id          TEXT NOT NULL,
	type               TEXT NOT NULL,
	latitude           DOUBLE PRECISION NOT NULL,
	longitude          DOUBLE PRECISION NOT NULL,
	location_accuracy  DOUBLE PRECISION,
	location_source    TEXT,
	battery_level      BIGINT,
	cellular_dbm       DOUBLE PRECISION,
	wifi_access_points BIGINT,
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (deviceimei, ts, provider)
);
`

// NewPostgres connects a pool, pings it and runs the embedded migration.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// AppendAudit inserts one raw webhook row per delivery attempt. No conflict
// target: the audit trail records every attempt, duplicates included.
func (s *PostgresStore) AppendAudit(ctx context.Context, rec domain.RawAuditRecord) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO raw_webhook_events (id, provider, deviceimei, device_name, entry_time_epoch, payload, warnings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		uuid.NewString(), rec.Provider, rec.DeviceIMEI, rec.DeviceName, rec.EntryTimeEpoch, rec.Payload, rec.Warnings,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("postgres: append audit: %w", err)
	}
	return id, nil
}

// UpsertSensorReading writes the sensor row for the reading's identity key.
// The id column is never touched on conflict, so the id minted by the first
// insert is what RETURNING yields on every resend.
func (s *PostgresStore) UpsertSensorReading(ctx context.Context, r domain.SensorReading) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO px_sensor_events (id, deviceimei, ts, provider, device_id, type, temperature, humidity, light_level)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (deviceimei, ts, provider) DO UPDATE SET
		   device_id = $5, type = $6, temperature = $7, humidity = $8, light_level = $9, updated_at = now()
		 RETURNING id`,
		uuid.NewString(), r.DeviceIMEI, r.Timestamp, r.Provider, r.DeviceID, r.Type,
		r.TemperatureC, r.HumidityPct, r.LightLux,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("postgres: upsert sensor reading: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UpsertLocationReading(ctx context.Context, r domain.LocationReading) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO px_location_events (id, deviceimei, ts, provider, device_id, type, latitude, longitude, location_accuracy, location_source, battery_level, cellular_dbm, wifi_access_points)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (deviceimei, ts, provider) DO UPDATE SET
		   device_id = $5, type = $6, latitude = $7, longitude = $8, location_accuracy = $9,
		   location_source = $10, battery_level = $11, cellular_dbm = $12,
		   wifi_access_points = $13, updated_at = now()
		 RETURNING id`,
		uuid.NewString(), r.DeviceIMEI, r.Timestamp, r.Provider, r.DeviceID, r.Type,
		r.Latitude, r.Longitude, r.AccuracyM, r.Source,
		r.BatteryPct, r.CellularDbm, r.WifiAccessPoints,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("postgres: upsert location reading: %w", err)
	}
	return id, nil
}
