// Package store persists audit records and canonical readings. Two drivers
// are provided: postgres for production and sqlite for local development.
// Both enforce the same (deviceimei, ts, provider) uniqueness, and both
// return the row id minted by the first insert on every later upsert of the
// same key.
package store

import (
	"context"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
)

// Store is what a driver must provide on top of the ingestion pipeline's
// persistence contract.
type Store interface {
	AppendAudit(ctx context.Context, rec domain.RawAuditRecord) (string, error)
	UpsertSensorReading(ctx context.Context, r domain.SensorReading) (string, error)
	UpsertLocationReading(ctx context.Context, r domain.LocationReading) (string, error)
	Ping(ctx context.Context) error
	Close() error
}
