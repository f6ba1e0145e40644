package sensor

import (
	"context"
	"errors"

	"github.com/nerrad567/iot-inventory/internal/events"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Service implements sensor operations.
type Service struct {
	repo   Repository
	guard  *integrity.Guard
	events events.Publisher
}

// NewService creates a sensor service. A nil publisher discards events.
func NewService(repo Repository, guard *integrity.Guard, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{repo: repo, guard: guard, events: pub}
}

// Create validates and stores a new sensor.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Sensor, error) {
	sn := &Sensor{
		Type:     in.Type,
		Unit:     in.Unit,
		Model:    in.Model,
		Location: in.Location,
		IsActive: true,
	}
	if in.IsActive != nil {
		sn.IsActive = *in.IsActive
	}
	sn.normalize()
	if err := sn.validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sn); err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.New(events.EntitySensor, events.ActionCreated, sn.ID, sn))
	return sn, nil
}

// List returns all sensors.
func (s *Service) List(ctx context.Context) ([]Sensor, error) {
	return s.repo.List(ctx, Filter{})
}

// GetByType returns the active sensors of type t.
func (s *Service) GetByType(ctx context.Context, t Type) ([]Sensor, error) {
	if !t.IsValid() {
		v := integrity.NewValidationError()
		v.Add("type", invalidType(t))
		return nil, v
	}
	return s.repo.List(ctx, Filter{Type: t, ActiveOnly: true})
}

// GetActiveSensors returns every active sensor.
func (s *Service) GetActiveSensors(ctx context.Context) ([]Sensor, error) {
	return s.repo.List(ctx, Filter{ActiveOnly: true})
}

// GetByID returns one sensor.
func (s *Service) GetByID(ctx context.Context, id string) (*Sensor, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies p to the stored sensor. Deactivating a sensor makes later
// reading creates against it fail; readings already stored are kept.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Sensor, error) {
	sn, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sn.apply(p)
	if err := sn.validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sn); err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.New(events.EntitySensor, events.ActionUpdated, sn.ID, sn))
	return sn, nil
}

// Delete removes a sensor that has no readings.
func (s *Service) Delete(ctx context.Context, id string) (*Summary, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	if err := s.guard.CheckSensorDelete(ctx, id); err != nil {
		return nil, err
	}

	sn, err := s.repo.Delete(ctx, id)
	if errors.Is(err, errHasReadings) {
		if gerr := s.guard.CheckSensorDelete(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, &integrity.DependentsExistError{Kind: "readings", Count: 1}
	}
	if err != nil {
		return nil, err
	}

	sum := sn.Summary()
	s.events.Publish(ctx, events.New(events.EntitySensor, events.ActionDeleted, sn.ID, sum))
	return &sum, nil
}
