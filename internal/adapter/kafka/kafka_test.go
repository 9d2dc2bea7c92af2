package kafka

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/tive-telemetry-ingest/internal/domain"
)

func TestNewPublisher_Wiring(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPublisher([]string{"localhost:9092"}, "tive-canonical-readings", logger)
	t.Cleanup(func() { _ = p.Close() })

	assert.Equal(t, "tive-canonical-readings", p.writer.Topic)
	assert.Same(t, logger, p.logger)
}

func TestSerializeReading_Sensor(t *testing.T) {
	ts := time.UnixMilli(1700000000000).UTC()
	reading := domain.SensorReading{
		DeviceIMEI:   "D1",
		Timestamp:    ts,
		Provider:     "Tive",
		DeviceID:     "Truck1",
		Type:         "Active",
		TemperatureC: 21.23,
	}

	msg, err := serializeReading("sensor", reading.Key(), reading)
	require.NoError(t, err)

	assert.Equal(t, []byte("D1|1700000000000|Tive"), msg.Key)
	assert.Contains(t, string(msg.Value), `"temperature":21.23`)
	assert.Contains(t, string(msg.Value), `"deviceimei":"D1"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("sensor"), msg.Headers[0].Value)
	assert.Equal(t, "provider", msg.Headers[1].Key)
	assert.Equal(t, []byte("Tive"), msg.Headers[1].Value)
}

func TestSerializeReading_Location(t *testing.T) {
	ts := time.UnixMilli(1700000000000).UTC()
	reading := domain.LocationReading{
		DeviceIMEI: "D1",
		Timestamp:  ts,
		Provider:   "Tive",
		DeviceID:   "Truck1",
		Type:       "Active",
		Latitude:   40.0,
		Longitude:  -70.0,
	}

	msg, err := serializeReading("location", reading.Key(), reading)
	require.NoError(t, err)

	assert.Equal(t, []byte("D1|1700000000000|Tive"), msg.Key)
	assert.Contains(t, string(msg.Value), `"latitude":40`)
	assert.Equal(t, []byte("location"), msg.Headers[0].Value)
}

func TestSerializeReading_SharedKeyOrdersPartition(t *testing.T) {
	ts := time.UnixMilli(1700000000000).UTC()
	sensor := domain.SensorReading{DeviceIMEI: "D1", Timestamp: ts, Provider: "Tive"}
	location := domain.LocationReading{DeviceIMEI: "D1", Timestamp: ts, Provider: "Tive"}

	sensorMsg, err := serializeReading("sensor", sensor.Key(), sensor)
	require.NoError(t, err)
	locationMsg, err := serializeReading("location", location.Key(), location)
	require.NoError(t, err)

	// Identical keys keep both readings of one ingestion on one partition.
	assert.Equal(t, sensorMsg.Key, locationMsg.Key)
}
