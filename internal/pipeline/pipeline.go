package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
	"github.com/couchcryptid/tive-telemetry-ingest/internal/observability"
)

// Store is the persistence contract the ingestor requires. The audit append
// is append-only; both upserts must be atomic per (deviceimei, timestamp,
// provider) key, which is what makes concurrent ingestion safe.
type Store interface {
	AppendAudit(ctx context.Context, rec domain.RawAuditRecord) (string, error)
	UpsertSensorReading(ctx context.Context, r domain.SensorReading) (string, error)
	UpsertLocationReading(ctx context.Context, r domain.LocationReading) (string, error)
}

// Publisher forwards persisted canonical readings downstream. Optional;
// pass nil to disable.
type Publisher interface {
	PublishReadings(ctx context.Context, sensor domain.SensorReading, location domain.LocationReading) error
}

// Summary is the consolidated result of a successful ingestion.
type Summary struct {
	SensorEventID   string   `json:"sensorEventId"`
	LocationEventID string   `json:"locationEventId"`
	Warnings        []string `json:"warnings"`
}

// Ingestor runs the validate-normalize-persist pipeline, one payload per
// call. It is stateless and request-scoped: concurrent calls share nothing
// in memory, only the store.
type Ingestor struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Ingestor. publisher may be nil.
func New(store Store, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Ingestor {
	return &Ingestor{
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Ingest validates, normalizes and persists one raw webhook body. Each step
// short-circuits to a classified *Error; nothing is written before every
// validation has passed, and a failed write is never swallowed. The
// pipeline does not retry; retry policy belongs to the caller, and only
// KindStorage failures are worth it.
func (i *Ingestor) Ingest(ctx context.Context, body []byte) (Summary, error) {
	start := time.Now()
	i.metrics.IngestAttempts.Inc()

	obj, err := domain.DecodeBody(body)
	if err != nil {
		return i.reject(&Error{Kind: KindMalformedInput, Message: "invalid JSON", cause: err})
	}

	payload, fieldErrs := domain.ValidatePayload(obj)
	if len(fieldErrs) > 0 {
		return i.reject(&Error{Kind: KindSchemaInvalid, Message: "validation failed", Fields: fieldErrs})
	}

	if err := domain.CheckLatLng(payload.Location.Latitude, payload.Location.Longitude); err != nil {
		return i.reject(&Error{Kind: KindDomainInvalid, Message: err.Error()})
	}

	warnings := domain.TimestampWarnings(payload.EntryTimeEpoch)
	i.metrics.TimestampWarnings.Add(float64(len(warnings)))

	sensor := domain.ToSensorReading(payload)
	location := domain.ToLocationReading(payload)

	// Losing the audit trail is unacceptable, so a failed append fails the
	// whole ingestion.
	if _, err := i.store.AppendAudit(ctx, domain.NewAuditRecord(payload, body, warnings)); err != nil {
		return i.reject(storageError("append audit record", err))
	}

	sensorID, err := i.store.UpsertSensorReading(ctx, sensor)
	if err != nil {
		return i.reject(storageError("upsert sensor reading", err))
	}

	locationID, err := i.store.UpsertLocationReading(ctx, location)
	if err != nil {
		return i.reject(storageError("upsert location reading", err))
	}

	i.metrics.IngestSuccess.Inc()
	i.metrics.IngestDuration.Observe(time.Since(start).Seconds())

	i.publish(ctx, sensor, location)

	if warnings == nil {
		warnings = []string{}
	}
	return Summary{
		SensorEventID:   sensorID,
		LocationEventID: locationID,
		Warnings:        warnings,
	}, nil
}

// reject counts and logs a failure, then hands the classified error back to
// the caller.
func (i *Ingestor) reject(e *Error) (Summary, error) {
	i.metrics.IngestFailures.WithLabelValues(e.Kind.String()).Inc()
	if e.Kind == KindStorage {
		i.logger.Error("ingestion failed", "reason", e.Kind.String(), "error", e)
	} else {
		i.logger.Warn("payload rejected", "reason", e.Kind.String(), "error", e)
	}
	return Summary{}, e
}

// publish forwards the persisted readings downstream, best-effort. The
// store is the source of truth; a broker outage never turns a persisted
// ingestion into an error.
func (i *Ingestor) publish(ctx context.Context, sensor domain.SensorReading, location domain.LocationReading) {
	if i.publisher == nil {
		return
	}
	if err := i.publisher.PublishReadings(ctx, sensor, location); err != nil {
		i.metrics.PublishErrors.Inc()
		i.logger.Warn("publish readings failed",
			"error", err,
			"deviceimei", sensor.DeviceIMEI,
			"timestamp", sensor.Timestamp,
		)
		return
	}
	i.metrics.ReadingsPublished.Add(2)
}
