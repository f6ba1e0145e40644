package device

import (
	"context"
	"errors"

	"github.com/nerrad567/iot-inventory/internal/events"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Service implements device operations.
type Service struct {
	repo   Repository
	guard  *integrity.Guard
	events events.Publisher
}

// NewService creates a device service. A nil publisher discards events.
func NewService(repo Repository, guard *integrity.Guard, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{repo: repo, guard: guard, events: pub}
}

// Create validates in, resolves every reference and stores the device.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	d := &Device{
		SerialNumber: in.SerialNumber,
		Model:        in.Model,
		Status:       in.Status,
		OwnerID:      in.OwnerID,
		ZoneID:       in.ZoneID,
		SensorIDs:    in.Sensors,
	}
	if d.Status == "" {
		d.Status = StatusActive
	}
	if in.InstalledAt != nil {
		d.InstalledAt = in.InstalledAt.UTC()
	}
	d.normalize()
	if err := d.validate(); err != nil {
		return nil, err
	}

	if err := s.guard.CheckDeviceRefs(ctx, d.OwnerID, d.ZoneID, d.SensorIDs); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, s.recheckRefs(ctx, d, err)
	}

	return s.publishView(ctx, events.ActionCreated, d.ID)
}

// List returns all devices.
func (s *Service) List(ctx context.Context) ([]View, error) {
	return s.repo.List(ctx, Filter{})
}

// GetByStatus returns the devices in the given status.
func (s *Service) GetByStatus(ctx context.Context, status Status) ([]View, error) {
	if status == "" {
		v := integrity.NewValidationError()
		v.Add("status", "status is required")
		return nil, v
	}
	return s.Find(ctx, Filter{Status: status})
}

// GetByZone returns the devices installed in a zone.
func (s *Service) GetByZone(ctx context.Context, zoneID string) ([]View, error) {
	if zoneID == "" {
		return nil, integrity.ErrInvalidID
	}
	return s.Find(ctx, Filter{ZoneID: zoneID})
}

// Find returns the devices matching every non-empty field of f. An unknown
// status is a validation error and a malformed zone id is
// integrity.ErrInvalidID; the status is checked first.
func (s *Service) Find(ctx context.Context, f Filter) ([]View, error) {
	if f.Status != "" && !f.Status.IsValid() {
		v := integrity.NewValidationError()
		v.Add("status", invalidStatus(f.Status))
		return nil, v
	}
	if f.ZoneID != "" {
		if err := integrity.CheckID(f.ZoneID); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, f)
}

// GetByID returns one device with its references expanded.
func (s *Service) GetByID(ctx context.Context, id string) (*View, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	return s.repo.View(ctx, id)
}

// Update applies p to the stored device. Only references that change are
// resolved again.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*View, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ownerChanged, zoneChanged, sensorsChanged := d.apply(p)
	if err := d.validate(); err != nil {
		return nil, err
	}

	var owner, zone string
	var sensors []string
	if ownerChanged {
		owner = d.OwnerID
	}
	if zoneChanged {
		zone = d.ZoneID
	}
	if sensorsChanged {
		sensors = d.SensorIDs
	}
	if err := s.guard.CheckDeviceRefs(ctx, owner, zone, sensors); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, s.recheckRefs(ctx, d, err)
	}

	return s.publishView(ctx, events.ActionUpdated, d.ID)
}

// Delete removes a device that has no sensors attached.
func (s *Service) Delete(ctx context.Context, id string) (*Summary, error) {
	if err := integrity.CheckID(id); err != nil {
		return nil, err
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckDeviceDelete(d.SensorIDs); err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	sum := deleted.Summary()
	s.events.Publish(ctx, events.New(events.EntityDevice, events.ActionDeleted, deleted.ID, sum))
	return &sum, nil
}

// recheckRefs turns a foreign-key rejection into the guard error that
// describes it. A reference deleted between the guard and the write lands
// here.
func (s *Service) recheckRefs(ctx context.Context, d *Device, err error) error {
	if !errors.Is(err, errDanglingRef) {
		return err
	}
	if gerr := s.guard.CheckDeviceRefs(ctx, d.OwnerID, d.ZoneID, d.SensorIDs); gerr != nil {
		return gerr
	}
	return &integrity.ReferenceNotFoundError{Kind: "owner", ID: d.OwnerID}
}

func (s *Service) publishView(ctx context.Context, action, id string) (*View, error) {
	v, err := s.repo.View(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.New(events.EntityDevice, action, v.ID, v))
	return v, nil
}
