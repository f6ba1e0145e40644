// Package inventory assembles the entity services over one database.
//
// Every service shares a single integrity.Guard whose lookups are the
// entity repositories themselves, so a guard check and the write it
// protects read the same store.
package inventory

import (
	"database/sql"

	"github.com/nerrad567/iot-inventory/internal/device"
	"github.com/nerrad567/iot-inventory/internal/events"
	"github.com/nerrad567/iot-inventory/internal/integrity"
	"github.com/nerrad567/iot-inventory/internal/reading"
	"github.com/nerrad567/iot-inventory/internal/sensor"
	"github.com/nerrad567/iot-inventory/internal/user"
	"github.com/nerrad567/iot-inventory/internal/zone"
)

// Services holds one service per entity.
type Services struct {
	Users    *user.Service
	Zones    *zone.Service
	Devices  *device.Service
	Sensors  *sensor.Service
	Readings *reading.Service
}

// NewServices builds the repositories, the guard and the services. pub
// receives every committed mutation; nil discards them.
func NewServices(db *sql.DB, pub events.Publisher) *Services {
	users := user.NewSQLiteRepository(db)
	zones := zone.NewSQLiteRepository(db)
	sensors := sensor.NewSQLiteRepository(db)
	devices := device.NewSQLiteRepository(db)
	readings := reading.NewSQLiteRepository(db)

	guard := integrity.NewGuard(integrity.Lookups{
		Users:    users,
		Zones:    zones,
		Sensors:  sensors,
		Devices:  devices,
		Readings: readings,
	})

	return &Services{
		Users:    user.NewService(users, guard, pub),
		Zones:    zone.NewService(zones, guard, pub),
		Devices:  device.NewService(devices, guard, pub),
		Sensors:  sensor.NewService(sensors, guard, pub),
		Readings: reading.NewService(readings, guard, pub),
	}
}
