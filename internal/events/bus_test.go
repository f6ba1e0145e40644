package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/iot-inventory/internal/audit"
	"github.com/nerrad567/iot-inventory/internal/events"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/influxdb"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/logging"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/mqtt"
	"github.com/nerrad567/iot-inventory/internal/testutil"
)

type recordingSink struct {
	name string
	err  error
	got  []events.Event
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Handle(ctx context.Context, ev events.Event) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.got = append(s.got, ev)
	return s.err
}

func TestBus_FanOut(t *testing.T) {
	bus := events.NewBus(logging.Nop())
	failing := &recordingSink{name: "failing", err: errors.New("broker down")}
	ok := &recordingSink{name: "ok"}
	bus.Register(failing)
	bus.Register(ok)

	ev := events.New(events.EntityZone, events.ActionCreated, "z1", map[string]string{"name": "Downtown"})
	bus.Publish(context.Background(), ev)

	if len(failing.got) != 1 || len(ok.got) != 1 {
		t.Fatalf("deliveries failing=%d ok=%d, want 1/1", len(failing.got), len(ok.got))
	}
	if ok.got[0].Type != "zone.created" {
		t.Errorf("Type = %q, want zone.created", ok.got[0].Type)
	}
}

func TestBus_IgnoresCancelledRequestContext(t *testing.T) {
	bus := events.NewBus(logging.Nop())
	sink := &recordingSink{name: "s"}
	bus.Register(sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, events.New(events.EntityUser, events.ActionDeleted, "u1", nil))

	if len(sink.got) != 1 {
		t.Error("event should be delivered after the request context is cancelled")
	}
}

type fakeMQTT struct {
	connected bool
	published map[string]bool // topic -> retained
}

func (f *fakeMQTT) PublishJSON(topic string, _ any, retained bool) error {
	f.published[topic] = retained
	return nil
}
func (f *fakeMQTT) IsConnected() bool   { return f.connected }
func (f *fakeMQTT) Topics() mqtt.Topics { return mqtt.Topics{Prefix: "lab"} }

func readingEvent() events.Event {
	ev := events.New(events.EntityReading, events.ActionCreated, "r1", nil)
	ev.Sample = &events.Sample{SensorID: "s1", SensorType: "temperature", Unit: "°C", Value: 21.5, Time: time.Now()}
	return ev
}

func TestMQTTSink(t *testing.T) {
	f := &fakeMQTT{connected: true, published: map[string]bool{}}
	sink := events.NewMQTTSink(f)

	if err := sink.Handle(context.Background(), readingEvent()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if retained, ok := f.published["lab/events/reading/created"]; !ok || retained {
		t.Errorf("event topic published=%v retained=%v, want published, not retained", ok, retained)
	}
	if retained := f.published["lab/sensors/s1/latest"]; !retained {
		t.Error("latest reading should be published retained")
	}

	f.connected = false
	f.published = map[string]bool{}
	if err := sink.Handle(context.Background(), readingEvent()); err != nil {
		t.Fatalf("Handle() disconnected error = %v", err)
	}
	if len(f.published) != 0 {
		t.Error("nothing should be published while disconnected")
	}
}

type fakeWriter struct{ got []influxdb.Reading }

func (f *fakeWriter) WriteReading(r influxdb.Reading) { f.got = append(f.got, r) }

func TestInfluxSink(t *testing.T) {
	w := &fakeWriter{}
	sink := events.NewInfluxSink(w)
	ctx := context.Background()

	_ = sink.Handle(ctx, events.New(events.EntityZone, events.ActionCreated, "z1", nil)) //nolint:errcheck // never fails
	_ = sink.Handle(ctx, readingEvent())                                                //nolint:errcheck // never fails

	if len(w.got) != 1 {
		t.Fatalf("writes = %d, want 1 (readings only)", len(w.got))
	}
	if w.got[0].SensorType != "temperature" || w.got[0].Value != 21.5 {
		t.Errorf("written = %+v", w.got[0])
	}
}

func TestAuditSink(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := audit.NewSQLiteRepository(db.DB)
	sink := events.NewAuditSink(repo, "api")
	ctx := context.Background()

	type userView struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		PasswordHash string `json:"-"`
	}
	payload := userView{ID: "u1", Email: "a@b.co", PasswordHash: "$argon2id$secret"}
	if err := sink.Handle(ctx, events.New(events.EntityUser, events.ActionCreated, "u1", payload)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	res, err := repo.List(ctx, audit.Filter{EntityType: events.EntityUser})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("audit entries = %d, want 1", res.Total)
	}
	entry := res.Logs[0]
	if entry.Action != events.ActionCreated || entry.Source != "api" || entry.EntityID != "u1" {
		t.Errorf("entry = %+v", entry)
	}
	if _, leaked := entry.Details["PasswordHash"]; leaked {
		t.Error("password hash leaked into audit details")
	}
	if entry.Details["email"] != "a@b.co" {
		t.Errorf("details = %v", entry.Details)
	}
}
