// Package seed loads a demonstration data set into an empty inventory.
//
// Run wipes the inventory tables and recreates a fixed set of users, zones,
// sensors and devices, then a batch of random readings from the last week.
// Everything after the wipe goes through the entity services, so passwords
// are hashed and every reference guard applies. The audit trail is kept.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/nerrad567/iot-inventory/internal/device"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/logging"
	"github.com/nerrad567/iot-inventory/internal/inventory"
	"github.com/nerrad567/iot-inventory/internal/reading"
	"github.com/nerrad567/iot-inventory/internal/sensor"
	"github.com/nerrad567/iot-inventory/internal/user"
	"github.com/nerrad567/iot-inventory/internal/zone"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// DefaultReadings is the number of readings created when Options.Readings is zero.
const DefaultReadings = 50

// readingWindow is how far back seeded reading times may go.
const readingWindow = 7 * 24 * time.Hour

// clearOrder lists the tables in child-to-parent order.
var clearOrder = []string{"readings", "device_sensors", "devices", "sensors", "zones", "users"}

// Options tunes a seed run. The zero value seeds DefaultReadings readings
// relative to time.Now with a randomly seeded generator.
type Options struct {
	Readings int
	Now      time.Time
	Rand     *rand.Rand
}

// Result counts what a run created.
type Result struct {
	Users    int
	Zones    int
	Sensors  int
	Devices  int
	Readings int
}

// valueRange is the [lo, hi) interval a sensor type's readings are drawn from.
type valueRange struct {
	lo, hi   float64
	integral bool
}

var ranges = map[sensor.Type]valueRange{
	sensor.TypeTemperature: {lo: 10, hi: 40},
	sensor.TypeHumidity:    {lo: 20, hi: 80},
	sensor.TypeCO2:         {lo: 400, hi: 1000, integral: true},
	sensor.TypeNoise:       {lo: 30, hi: 90, integral: true},
}

// Run clears the inventory and creates the demonstration data set.
func Run(ctx context.Context, db *sql.DB, svcs *inventory.Services, log *logging.Logger, opts Options) (*Result, error) {
	if opts.Readings <= 0 {
		opts.Readings = DefaultReadings
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // demo data
	}

	log.Info("clearing existing data")
	if err := clearTables(ctx, db); err != nil {
		return nil, err
	}

	res := &Result{}

	users, err := seedUsers(ctx, svcs.Users)
	if err != nil {
		return nil, err
	}
	res.Users = len(users)
	log.Info("users created", "count", res.Users)

	zones, err := seedZones(ctx, svcs.Zones)
	if err != nil {
		return nil, err
	}
	res.Zones = len(zones)
	log.Info("zones created", "count", res.Zones)

	sensors, err := seedSensors(ctx, svcs.Sensors)
	if err != nil {
		return nil, err
	}
	res.Sensors = len(sensors)
	log.Info("sensors created", "count", res.Sensors)

	devices, err := seedDevices(ctx, svcs.Devices, users, zones, sensors)
	if err != nil {
		return nil, err
	}
	res.Devices = devices
	log.Info("devices created", "count", res.Devices)

	for i := range opts.Readings {
		s := sensors[opts.Rand.IntN(len(sensors))]
		at := opts.Now.Add(-time.Duration(opts.Rand.IntN(int(readingWindow/time.Hour))) * time.Hour)
		value := randomValue(opts.Rand, s.Type)
		if _, err := svcs.Readings.Create(ctx, reading.CreateInput{SensorID: s.ID, Value: &value, Time: &at}); err != nil {
			return nil, fmt.Errorf("creating reading %d: %w", i+1, err)
		}
	}
	res.Readings = opts.Readings
	log.Info("readings created", "count", res.Readings)

	return res, nil
}

func clearTables(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning clear: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range clearOrder {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil { //nolint:gosec // fixed table names
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	return nil
}

func seedUsers(ctx context.Context, svc *user.Service) ([]*user.User, error) {
	inputs := []user.CreateInput{
		{Name: "Admin User", Email: "admin@smartcity.com", Role: user.RoleAdmin},
		{Name: "John Technician", Email: "tech@smartcity.com", Role: user.RoleTechnician},
		{Name: "Jane Viewer", Email: "viewer@smartcity.com", Role: user.RoleViewer},
	}
	out := make([]*user.User, 0, len(inputs))
	for _, in := range inputs {
		in.Password = DefaultPassword
		u, err := svc.Create(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("creating user %s: %w", in.Email, err)
		}
		out = append(out, u)
	}
	return out, nil
}

func seedZones(ctx context.Context, svc *zone.Service) ([]*zone.Zone, error) {
	inactive := false
	inputs := []zone.CreateInput{
		{Name: "Downtown", Description: "City center and business district"},
		{Name: "Industrial Park", Description: "Factory and manufacturing area"},
		{Name: "Residential Area", Description: "Housing and residential zone"},
		{Name: "Green Park", Description: "Public park and recreational area", IsActive: &inactive},
	}
	out := make([]*zone.Zone, 0, len(inputs))
	for _, in := range inputs {
		z, err := svc.Create(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("creating zone %s: %w", in.Name, err)
		}
		out = append(out, z)
	}
	return out, nil
}

func seedSensors(ctx context.Context, svc *sensor.Service) ([]*sensor.Sensor, error) {
	inputs := []sensor.CreateInput{
		{Type: sensor.TypeTemperature, Unit: "°C", Model: "TMP-100", Location: "40.7128,-74.0060"},
		{Type: sensor.TypeHumidity, Unit: "%", Model: "HUM-200", Location: "40.7128,-74.0060"},
		{Type: sensor.TypeCO2, Unit: "ppm", Model: "AIR-300", Location: "40.7589,-73.9851"},
		{Type: sensor.TypeNoise, Unit: "dB", Model: "MIC-400", Location: "40.7589,-73.9851"},
	}
	out := make([]*sensor.Sensor, 0, len(inputs))
	for _, in := range inputs {
		s, err := svc.Create(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("creating sensor %s: %w", in.Model, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// seedDevices pairs the i-th device with the i-th zone and sensor.
func seedDevices(ctx context.Context, svc *device.Service, users []*user.User, zones []*zone.Zone, sensors []*sensor.Sensor) (int, error) {
	admin, tech, viewer := users[0], users[1], users[2]
	catalog := []struct {
		serial string
		model  string
		status device.Status
		owner  *user.User
	}{
		{"DEV-001", "SmartLight-X1", device.StatusActive, admin},
		{"DEV-002", "TrafficCam-Y2", device.StatusMaintenance, tech},
		{"DEV-003", "AirQuality-Z3", device.StatusActive, admin},
		{"DEV-004", "NoiseMonitor-W4", device.StatusOffline, viewer},
	}
	for i, sp := range catalog {
		_, err := svc.Create(ctx, device.CreateInput{
			SerialNumber: sp.serial,
			Model:        sp.model,
			Status:       sp.status,
			OwnerID:      sp.owner.ID,
			ZoneID:       zones[i].ID,
			Sensors:      []string{sensors[i].ID},
		})
		if err != nil {
			return 0, fmt.Errorf("creating device %s: %w", sp.serial, err)
		}
	}
	return len(catalog), nil
}

// randomValue draws a plausible reading for t. Fractional types keep one decimal.
func randomValue(r *rand.Rand, t sensor.Type) float64 {
	vr, ok := ranges[t]
	if !ok {
		return r.Float64() * 100
	}
	v := vr.lo + r.Float64()*(vr.hi-vr.lo)
	if vr.integral {
		return math.Floor(v)
	}
	return math.Round(v*10) / 10
}
