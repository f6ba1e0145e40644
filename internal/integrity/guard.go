package integrity

import (
	"context"
	"fmt"
)

// UserLookup resolves user ids.
type UserLookup interface {
	UserExists(ctx context.Context, id string) (bool, error)
}

// ZoneLookup resolves zone ids.
type ZoneLookup interface {
	ZoneExists(ctx context.Context, id string) (bool, error)
}

// SensorLookup resolves sensor ids and reports their active flag.
type SensorLookup interface {
	SensorState(ctx context.Context, id string) (exists, active bool, err error)
}

// DeviceCounter counts devices referencing a user or zone.
type DeviceCounter interface {
	CountByOwner(ctx context.Context, userID string) (int, error)
	CountByZone(ctx context.Context, zoneID string) (int, error)
}

// ReadingCounter counts readings recorded against a sensor.
type ReadingCounter interface {
	CountBySensor(ctx context.Context, sensorID string) (int, error)
}

// Lookups bundles the read-only capabilities the Guard needs. Every field
// must be set.
type Lookups struct {
	Users    UserLookup
	Zones    ZoneLookup
	Sensors  SensorLookup
	Devices  DeviceCounter
	Readings ReadingCounter
}

// Guard runs referential-integrity preconditions. Each check runs before the
// store mutation it protects and performs no writes.
//
// A dependent created between a delete check and the delete itself is not
// detected here; SQLite foreign keys with ON DELETE RESTRICT reject that
// delete instead.
type Guard struct {
	users    UserLookup
	zones    ZoneLookup
	sensors  SensorLookup
	devices  DeviceCounter
	readings ReadingCounter
}

// NewGuard creates a Guard over the given lookups.
func NewGuard(l Lookups) *Guard {
	return &Guard{
		users:    l.Users,
		zones:    l.Zones,
		sensors:  l.Sensors,
		devices:  l.Devices,
		readings: l.Readings,
	}
}

// CheckDeviceRefs verifies the owner, zone and every attached sensor exist.
// Empty ownerID or zoneID are skipped so partial updates only check what
// they change.
func (g *Guard) CheckDeviceRefs(ctx context.Context, ownerID, zoneID string, sensorIDs []string) error {
	if ownerID != "" {
		ok, err := g.users.UserExists(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("resolving owner: %w", err)
		}
		if !ok {
			return &ReferenceNotFoundError{Kind: "owner", ID: ownerID}
		}
	}

	if zoneID != "" {
		ok, err := g.zones.ZoneExists(ctx, zoneID)
		if err != nil {
			return fmt.Errorf("resolving zone: %w", err)
		}
		if !ok {
			return &ReferenceNotFoundError{Kind: "zone", ID: zoneID}
		}
	}

	for _, id := range sensorIDs {
		exists, _, err := g.sensors.SensorState(ctx, id)
		if err != nil {
			return fmt.Errorf("resolving sensor: %w", err)
		}
		if !exists {
			return &ReferenceNotFoundError{Kind: "sensor", ID: id}
		}
	}

	return nil
}

// CheckReadingSensor verifies a reading's sensor exists and is active.
func (g *Guard) CheckReadingSensor(ctx context.Context, sensorID string) error {
	exists, active, err := g.sensors.SensorState(ctx, sensorID)
	if err != nil {
		return fmt.Errorf("resolving sensor: %w", err)
	}
	if !exists {
		return &ReferenceNotFoundError{Kind: "sensor", ID: sensorID}
	}
	if !active {
		return ErrSensorInactive
	}
	return nil
}

// CheckUserDelete blocks deleting a user who still owns devices.
func (g *Guard) CheckUserDelete(ctx context.Context, userID string) error {
	n, err := g.devices.CountByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting owned devices: %w", err)
	}
	return dependents("devices", n)
}

// CheckZoneDelete blocks deleting a zone that still holds devices.
func (g *Guard) CheckZoneDelete(ctx context.Context, zoneID string) error {
	n, err := g.devices.CountByZone(ctx, zoneID)
	if err != nil {
		return fmt.Errorf("counting zone devices: %w", err)
	}
	return dependents("devices", n)
}

// CheckSensorDelete blocks deleting a sensor that has recorded readings.
func (g *Guard) CheckSensorDelete(ctx context.Context, sensorID string) error {
	n, err := g.readings.CountBySensor(ctx, sensorID)
	if err != nil {
		return fmt.Errorf("counting sensor readings: %w", err)
	}
	return dependents("readings", n)
}

// CheckDeviceDelete blocks deleting a device that still has sensors attached.
func (g *Guard) CheckDeviceDelete(sensorIDs []string) error {
	return dependents("sensors", len(sensorIDs))
}

func dependents(kind string, n int) error {
	if n > 0 {
		return &DependentsExistError{Kind: kind, Count: n}
	}
	return nil
}
