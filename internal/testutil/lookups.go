package testutil

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Lookups answers every guard lookup with direct SQL, so an entity package
// can test its guard paths without importing the other entity packages.
func Lookups(db *sql.DB) integrity.Lookups {
	l := sqlLookups{db: db}
	return integrity.Lookups{Users: l, Zones: l, Sensors: l, Devices: l, Readings: l}
}

// Guard returns a Guard over Lookups(db).
func Guard(db *sql.DB) *integrity.Guard {
	return integrity.NewGuard(Lookups(db))
}

type sqlLookups struct {
	db *sql.DB
}

func (l sqlLookups) count(ctx context.Context, query, id string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, query, id).Scan(&n)
	return n, err
}

func (l sqlLookups) UserExists(ctx context.Context, id string) (bool, error) {
	n, err := l.count(ctx, "SELECT COUNT(1) FROM users WHERE id = ?", id)
	return n > 0, err
}

func (l sqlLookups) ZoneExists(ctx context.Context, id string) (bool, error) {
	n, err := l.count(ctx, "SELECT COUNT(1) FROM zones WHERE id = ?", id)
	return n > 0, err
}

func (l sqlLookups) SensorState(ctx context.Context, id string) (exists, active bool, err error) {
	var flag int
	err = l.db.QueryRowContext(ctx, "SELECT is_active FROM sensors WHERE id = ?", id).Scan(&flag)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, flag != 0, nil
}

func (l sqlLookups) CountByOwner(ctx context.Context, id string) (int, error) {
	return l.count(ctx, "SELECT COUNT(1) FROM devices WHERE owner_id = ?", id)
}

func (l sqlLookups) CountByZone(ctx context.Context, id string) (int, error) {
	return l.count(ctx, "SELECT COUNT(1) FROM devices WHERE zone_id = ?", id)
}

func (l sqlLookups) CountBySensor(ctx context.Context, id string) (int, error) {
	return l.count(ctx, "SELECT COUNT(1) FROM readings WHERE sensor_id = ?", id)
}
