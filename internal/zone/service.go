package zone

import (
	"context"
	"errors"
	"strings"

	"github.com/nerrad567/iot-inventory/internal/events"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Service implements zone operations.
type Service struct {
	repo   Repository
	guard  *integrity.Guard
	events events.Publisher
}

// NewService creates a zone service. A nil publisher discards events.
func NewService(repo Repository, guard *integrity.Guard, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{repo: repo, guard: guard, events: pub}
}

// Create validates and stores a new zone.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Zone, error) {
	z := &Zone{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	if in.IsActive != nil {
		z.IsActive = *in.IsActive
	}
	if err := z.validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, z); err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.New(events.EntityZone, events.ActionCreated, z.ID, z))
	return z, nil
}

// List returns all zones.
func (s *Service) List(ctx context.Context) ([]Zone, error) {
	return s.repo.List(ctx, Filter{})
}

// GetActiveZones returns zones whose isActive flag is set.
func (s *Service) GetActiveZones(ctx context.Context) ([]Zone, error) {
	return s.repo.List(ctx, Filter{ActiveOnly: true})
}

// GetByID returns one zone.
func (s *Service) GetByID(ctx context.Context, id string) (*Zone, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies p to the stored zone.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Zone, error) {
	z, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	z.apply(p)
	if err := z.validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, z); err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.New(events.EntityZone, events.ActionUpdated, z.ID, z))
	return z, nil
}

// Delete removes a zone that holds no devices.
func (s *Service) Delete(ctx context.Context, id string) (*Summary, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	if err := s.guard.CheckZoneDelete(ctx, id); err != nil {
		return nil, err
	}

	z, err := s.repo.Delete(ctx, id)
	if errors.Is(err, errHasDevices) {
		if gerr := s.guard.CheckZoneDelete(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, &integrity.DependentsExistError{Kind: "devices", Count: 1}
	}
	if err != nil {
		return nil, err
	}

	sum := z.Summary()
	s.events.Publish(ctx, events.New(events.EntityZone, events.ActionDeleted, z.ID, sum))
	return &sum, nil
}
