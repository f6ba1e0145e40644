package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/nerrad567/iot-inventory/internal/integrity"
)

const fixtureTime = "2026-03-01T10:00:00.000Z"

// InsertUser writes a bare user row and returns its id.
func InsertUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	id := integrity.NewID()
	exec(t, db, `INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, 'x', ?, ?)`, id, "User "+id[:4], email, fixtureTime, fixtureTime)
	return id
}

// InsertZone writes a bare zone row and returns its id.
func InsertZone(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	id := integrity.NewID()
	exec(t, db, "INSERT INTO zones (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		id, name, fixtureTime, fixtureTime)
	return id
}

// InsertSensor writes a temperature sensor row and returns its id.
func InsertSensor(t *testing.T, db *sql.DB, active bool) string {
	t.Helper()
	id := integrity.NewID()
	flag := 0
	if active {
		flag = 1
	}
	exec(t, db, `INSERT INTO sensors (id, type, unit, model, location, is_active, created_at, updated_at)
		VALUES (?, 'temperature', '°C', 'TMP-100', 'lab', ?, ?, ?)`, id, flag, fixtureTime, fixtureTime)
	return id
}

// InsertDevice writes a device row owned by ownerID in zoneID, attaches
// sensorIDs in order and returns the device id.
func InsertDevice(t *testing.T, db *sql.DB, serial, ownerID, zoneID string, sensorIDs ...string) string {
	t.Helper()
	id := integrity.NewID()
	exec(t, db, `INSERT INTO devices (id, serial_number, model, installed_at, owner_id, zone_id, created_at, updated_at)
		VALUES (?, ?, 'X1', ?, ?, ?, ?, ?)`, id, serial, fixtureTime, ownerID, zoneID, fixtureTime, fixtureTime)
	for i, sid := range sensorIDs {
		exec(t, db, "INSERT INTO device_sensors (device_id, sensor_id, position) VALUES (?, ?, ?)", id, sid, i)
	}
	return id
}

// InsertReading writes a reading row at the given stored time.
func InsertReading(t *testing.T, db *sql.DB, sensorID string, value float64, at string) string {
	t.Helper()
	id := integrity.NewID()
	exec(t, db, `INSERT INTO readings (id, sensor_id, value, time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`, id, sensorID, value, at, fixtureTime, fixtureTime)
	return id
}

func exec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("fixture insert: %v", err)
	}
}
