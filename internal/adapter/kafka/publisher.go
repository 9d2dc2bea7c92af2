// Package kafka publishes persisted canonical readings to a sink topic for
// downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
)

// Publisher produces one message per canonical reading.
// It implements pipeline.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishReadings sends the sensor and location readings for one ingestion
// in a single WriteMessages call. Both messages share a key, so they land
// on the same partition in order.
func (p *Publisher) PublishReadings(ctx context.Context, sensor domain.SensorReading, location domain.LocationReading) error {
	sensorMsg, err := serializeReading("sensor", sensor.Key(), sensor)
	if err != nil {
		return err
	}
	locationMsg, err := serializeReading("location", location.Key(), location)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, sensorMsg, locationMsg); err != nil {
		return err
	}
	p.logger.Debug("published readings",
		"topic", p.writer.Topic,
		"key", string(sensorMsg.Key),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeReading marshals a canonical reading into a Kafka message keyed
// by its identity triple.
func serializeReading(kind string, key domain.ReadingKey, reading any) (kafkago.Message, error) {
	data, err := json.Marshal(reading)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s reading: %w", kind, err)
	}
	msgKey := key.DeviceIMEI + "|" + strconv.FormatInt(key.Timestamp.UnixMilli(), 10) + "|" + key.Provider
	return kafkago.Message{
		Key:   []byte(msgKey),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(kind)},
			{Key: "provider", Value: []byte(key.Provider)},
		},
	}, nil
}
