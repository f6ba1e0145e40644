package reading

import (
	"context"
	"errors"
	"math"

	"github.com/nerrad567/iot-inventory/internal/events"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Service implements reading operations.
type Service struct {
	repo   Repository
	guard  *integrity.Guard
	events events.Publisher
}

// NewService creates a reading service. A nil publisher discards events.
func NewService(repo Repository, guard *integrity.Guard, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{repo: repo, guard: guard, events: pub}
}

// Create records a reading against an existing, active sensor.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	v := integrity.NewValidationError()
	if in.SensorID == "" {
		v.Add("sensorId", "sensorId is required")
	}
	switch {
	case in.Value == nil:
		v.Add("value", "value is required")
	case math.IsNaN(*in.Value) || math.IsInf(*in.Value, 0):
		v.Add("value", "value must be a finite number")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.guard.CheckReadingSensor(ctx, in.SensorID); err != nil {
		return nil, err
	}

	rd := &Reading{SensorID: in.SensorID, Value: *in.Value}
	if in.Time != nil {
		rd.Time = in.Time.UTC()
	}
	if err := s.repo.Create(ctx, rd); err != nil {
		if errors.Is(err, errSensorGone) {
			return nil, &integrity.ReferenceNotFoundError{Kind: "sensor", ID: in.SensorID}
		}
		return nil, err
	}

	view, err := s.repo.View(ctx, rd.ID)
	if err != nil {
		return nil, err
	}

	ev := events.New(events.EntityReading, events.ActionCreated, view.ID, view)
	ev.Sample = &events.Sample{
		SensorID:   view.SensorID,
		SensorType: view.Sensor.Type,
		Unit:       view.Sensor.Unit,
		Value:      view.Value,
		Time:       view.Time,
	}
	s.events.Publish(ctx, ev)
	return view, nil
}

// List returns the page of readings q selects.
func (s *Service) List(ctx context.Context, q Query) ([]View, error) {
	if err := q.Normalize(DefaultLimit); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

// GetBySensorID lists one sensor's readings, newest first unless q says
// otherwise.
func (s *Service) GetBySensorID(ctx context.Context, sensorID string, q Query) ([]View, error) {
	if err := integrity.CheckID(sensorID); err != nil {
		return nil, err
	}
	q.SensorID = sensorID
	if err := q.Normalize(SensorDefaultLimit); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

// StatsBySensor aggregates one sensor's readings within q's time range.
func (s *Service) StatsBySensor(ctx context.Context, sensorID string, q Query) (*Stats, error) {
	if err := integrity.CheckID(sensorID); err != nil {
		return nil, err
	}
	q.SensorID = sensorID
	if err := q.Normalize(SensorDefaultLimit); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, q)
}

// GetByID returns one reading.
func (s *Service) GetByID(ctx context.Context, id string) (*View, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	return s.repo.View(ctx, id)
}

// Update changes a reading's value or time. Naming sensorId fails with
// ErrImmutableField.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*View, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	if len(p.SensorID) > 0 {
		return nil, integrity.ErrImmutableField
	}

	rd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Value != nil {
		if math.IsNaN(*p.Value) || math.IsInf(*p.Value, 0) {
			v := integrity.NewValidationError()
			v.Add("value", "value must be a finite number")
			return nil, v
		}
		rd.Value = *p.Value
	}
	if p.Time != nil {
		rd.Time = p.Time.UTC()
	}

	if err := s.repo.Update(ctx, rd); err != nil {
		return nil, err
	}

	view, err := s.repo.View(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.New(events.EntityReading, events.ActionUpdated, view.ID, view))
	return view, nil
}

// Delete removes a reading.
func (s *Service) Delete(ctx context.Context, id string) (*Summary, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}

	rd, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	sum := rd.Summary()
	s.events.Publish(ctx, events.New(events.EntityReading, events.ActionDeleted, rd.ID, sum))
	return &sum, nil
}
