package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/iot-inventory/internal/audit"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/influxdb"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/mqtt"
)

// MQTTPublisher is the subset of *mqtt.Client the MQTT sink uses.
type MQTTPublisher interface {
	PublishJSON(topic string, v any, retained bool) error
	IsConnected() bool
	Topics() mqtt.Topics
}

// MQTTSink publishes every event to {prefix}/events/{entity}/{action} and
// retains the latest reading per sensor.
type MQTTSink struct {
	client MQTTPublisher
}

// NewMQTTSink creates an MQTT sink.
func NewMQTTSink(client MQTTPublisher) *MQTTSink {
	return &MQTTSink{client: client}
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Handle implements Sink. Events are dropped while the broker is unreachable.
func (s *MQTTSink) Handle(_ context.Context, ev Event) error {
	if !s.client.IsConnected() {
		return nil
	}

	topics := s.client.Topics()
	if err := s.client.PublishJSON(topics.Event(ev.Entity, ev.Action), ev, false); err != nil {
		return err
	}

	if ev.Sample != nil {
		latest := map[string]any{
			"sensorId":  ev.Sample.SensorID,
			"type":      ev.Sample.SensorType,
			"unit":      ev.Sample.Unit,
			"value":     ev.Sample.Value,
			"time":      ev.Sample.Time,
			"readingId": ev.EntityID,
		}
		if err := s.client.PublishJSON(topics.SensorLatest(ev.Sample.SensorID), latest, true); err != nil {
			return err
		}
	}
	return nil
}

// ReadingWriter is the subset of *influxdb.Client the InfluxDB sink uses.
type ReadingWriter interface {
	WriteReading(r influxdb.Reading)
}

// InfluxSink mirrors created readings into InfluxDB.
type InfluxSink struct {
	writer ReadingWriter
}

// NewInfluxSink creates an InfluxDB sink.
func NewInfluxSink(w ReadingWriter) *InfluxSink {
	return &InfluxSink{writer: w}
}

// Name implements Sink.
func (s *InfluxSink) Name() string { return "influxdb" }

// Handle implements Sink. Only events carrying a Sample are written.
func (s *InfluxSink) Handle(_ context.Context, ev Event) error {
	if ev.Sample == nil || ev.Action != ActionCreated {
		return nil
	}
	s.writer.WriteReading(influxdb.Reading{
		SensorID:   ev.Sample.SensorID,
		SensorType: ev.Sample.SensorType,
		Unit:       ev.Sample.Unit,
		Value:      ev.Sample.Value,
		Time:       ev.Sample.Time,
	})
	return nil
}

// AuditSink records every event in the audit trail.
type AuditSink struct {
	repo   audit.Repository
	source string
}

// NewAuditSink creates an audit sink. source identifies the writer ("api", "seed").
func NewAuditSink(repo audit.Repository, source string) *AuditSink {
	return &AuditSink{repo: repo, source: source}
}

// Name implements Sink.
func (s *AuditSink) Name() string { return "audit" }

// Handle implements Sink.
func (s *AuditSink) Handle(ctx context.Context, ev Event) error {
	details, err := toDetails(ev.Payload)
	if err != nil {
		return err
	}
	entry := &audit.AuditLog{
		Action:     ev.Action,
		EntityType: ev.Entity,
		EntityID:   ev.EntityID,
		Source:     s.source,
		Details:    details,
		CreatedAt:  ev.Time,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// toDetails flattens a payload through its JSON form, so json tags (and
// omitted fields such as password hashes) apply to the audit trail too.
func toDetails(payload any) (map[string]any, error) {
	if payload == nil {
		return nil, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling audit details: %w", err)
	}
	var details map[string]any
	if err := json.Unmarshal(b, &details); err != nil {
		return map[string]any{"value": json.RawMessage(b)}, nil //nolint:nilerr // non-object payloads are wrapped
	}
	return details, nil
}
