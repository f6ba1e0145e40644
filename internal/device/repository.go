package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/iot-inventory/internal/infrastructure/database"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Repository defines the interface for device persistence.
type Repository interface {
	Create(ctx context.Context, d *Device) error
	GetByID(ctx context.Context, id string) (*Device, error)
	View(ctx context.Context, id string) (*View, error)
	List(ctx context.Context, f Filter) ([]View, error)
	Update(ctx context.Context, d *Device) error
	Delete(ctx context.Context, id string) (*Device, error)
	CountByOwner(ctx context.Context, userID string) (int, error)
	CountByZone(ctx context.Context, zoneID string) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed device repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// errDanglingRef marks a write rejected by a foreign key: the owner, zone or
// a sensor disappeared after the guard resolved it.
var errDanglingRef = errors.New("device references a missing record")

const deviceColumns = "id, serial_number, model, status, installed_at, owner_id, zone_id, created_at, updated_at"

const viewQuery = `
	SELECT d.id, d.serial_number, d.model, d.status, d.installed_at, d.owner_id, d.zone_id,
		d.created_at, d.updated_at,
		u.name, u.email, u.role,
		z.name, z.description
	FROM devices d
	JOIN users u ON u.id = d.owner_id
	JOIN zones z ON z.id = d.zone_id`

const attachmentQuery = `
	SELECT ds.device_id, s.id, s.type, s.model
	FROM device_sensors ds
	JOIN devices d ON d.id = ds.device_id
	JOIN sensors s ON s.id = ds.sensor_id`

// Create inserts a device and its sensor attachments in one transaction.
func (r *SQLiteRepository) Create(ctx context.Context, d *Device) error {
	if d.ID == "" {
		d.ID = integrity.NewID()
	}
	d.CreatedAt = database.Now()
	d.UpdatedAt = d.CreatedAt
	if d.InstalledAt.IsZero() {
		d.InstalledAt = d.CreatedAt
	}

	return r.inTx(ctx, "creating device", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO devices ("+deviceColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			d.ID, d.SerialNumber, d.Model, string(d.Status), database.FormatTime(d.InstalledAt),
			d.OwnerID, d.ZoneID, database.FormatTime(d.CreatedAt), database.FormatTime(d.UpdatedAt),
		); err != nil {
			return err
		}
		return insertAttachments(ctx, tx, d.ID, d.SensorIDs)
	})
}

// GetByID retrieves the stored form of a device, sensor ids included.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	d, err := scanDevice(r.db.QueryRowContext(ctx, "SELECT "+deviceColumns+" FROM devices WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, integrity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT sensor_id FROM device_sensors WHERE device_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("querying device sensors: %w", err)
	}
	defer rows.Close()

	d.SensorIDs = []string{}
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			return nil, fmt.Errorf("scanning device sensor: %w", err)
		}
		d.SensorIDs = append(d.SensorIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device sensors: %w", err)
	}
	return d, nil
}

// View retrieves one device with its references expanded.
func (r *SQLiteRepository) View(ctx context.Context, id string) (*View, error) {
	views, err := r.views(ctx, " WHERE d.id = ?", []any{id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, integrity.ErrNotFound
	}
	return &views[0], nil
}

// List returns expanded devices in creation order.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]View, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "d.status = ?")
		args = append(args, string(f.Status))
	}
	if f.ZoneID != "" {
		where = append(where, "d.zone_id = ?")
		args = append(args, f.ZoneID)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}
	return r.views(ctx, clause, args)
}

// Update writes every mutable field of d and replaces its attachments.
func (r *SQLiteRepository) Update(ctx context.Context, d *Device) error {
	d.UpdatedAt = database.Now()

	return r.inTx(ctx, "updating device", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE devices SET serial_number = ?, model = ?, status = ?, installed_at = ?,
				owner_id = ?, zone_id = ?, updated_at = ?
			 WHERE id = ?`,
			d.SerialNumber, d.Model, string(d.Status), database.FormatTime(d.InstalledAt),
			d.OwnerID, d.ZoneID, database.FormatTime(d.UpdatedAt), d.ID,
		)
		if err != nil {
			return err
		}
		if n, _ := result.RowsAffected(); n == 0 { //nolint:errcheck // always succeeds on SQLite
			return integrity.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM device_sensors WHERE device_id = ?", d.ID); err != nil {
			return err
		}
		return insertAttachments(ctx, tx, d.ID, d.SensorIDs)
	})
}

// Delete removes a device and returns the deleted row. Its attachments are
// removed by cascade.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (*Device, error) {
	d, err := scanDevice(r.db.QueryRowContext(ctx,
		"DELETE FROM devices WHERE id = ? RETURNING "+deviceColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, integrity.ErrNotFound
	}
	return d, err
}

// CountByOwner implements integrity.DeviceCounter.
func (r *SQLiteRepository) CountByOwner(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, "SELECT COUNT(1) FROM devices WHERE owner_id = ?", userID)
}

// CountByZone implements integrity.DeviceCounter.
func (r *SQLiteRepository) CountByZone(ctx context.Context, zoneID string) (int, error) {
	return r.count(ctx, "SELECT COUNT(1) FROM devices WHERE zone_id = ?", zoneID)
}

func (r *SQLiteRepository) count(ctx context.Context, query, arg string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting devices: %w", err)
	}
	return n, nil
}

// views runs the joined device query, then fills sensors with a second
// query over the same filter. The first result set is closed before the
// second runs, since the pool holds a single connection.
func (r *SQLiteRepository) views(ctx context.Context, where string, args []any) ([]View, error) {
	rows, err := r.db.QueryContext(ctx, viewQuery+where+" ORDER BY d.created_at, d.rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	views := []View{}
	index := map[string]int{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[v.ID] = len(views)
		views = append(views, *v)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	if len(views) == 0 {
		return views, nil
	}

	att, err := r.db.QueryContext(ctx, attachmentQuery+where+" ORDER BY ds.device_id, ds.position", args...)
	if err != nil {
		return nil, fmt.Errorf("listing device sensors: %w", err)
	}
	defer att.Close()

	for att.Next() {
		var (
			deviceID string
			ref      SensorRef
		)
		if err := att.Scan(&deviceID, &ref.ID, &ref.Type, &ref.Model); err != nil {
			return nil, fmt.Errorf("scanning device sensor: %w", err)
		}
		if i, ok := index[deviceID]; ok {
			views[i].Sensors = append(views[i].Sensors, ref)
		}
	}
	if err := att.Err(); err != nil {
		return nil, fmt.Errorf("iterating device sensors: %w", err)
	}
	return views, nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: beginning transaction: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return mapWriteError(op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: committing: %w", op, err)
	}
	return nil
}

func insertAttachments(ctx context.Context, tx *sql.Tx, deviceID string, sensorIDs []string) error {
	for i, sid := range sensorIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO device_sensors (device_id, sensor_id, position) VALUES (?, ?, ?)",
			deviceID, sid, i,
		); err != nil {
			return err
		}
	}
	return nil
}

func mapWriteError(op string, err error) error {
	if errors.Is(err, integrity.ErrNotFound) {
		return err
	}
	if col, ok := database.UniqueViolation(err); ok && col == "serial_number" {
		return &integrity.DuplicateKeyError{Field: "serialNumber"}
	}
	if database.ForeignKeyViolation(err) {
		return errDanglingRef
	}
	return fmt.Errorf("%s: %w", op, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(s scanner) (*Device, error) {
	var (
		d                                 Device
		status                            string
		installedAt, createdAt, updatedAt string
	)
	if err := s.Scan(&d.ID, &d.SerialNumber, &d.Model, &status, &installedAt,
		&d.OwnerID, &d.ZoneID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning device: %w", err)
	}
	d.Status = Status(status)

	var err error
	if d.InstalledAt, err = database.ParseTime(installedAt); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanView(s scanner) (*View, error) {
	var (
		v                                 View
		status                            string
		installedAt, createdAt, updatedAt string
	)
	if err := s.Scan(&v.ID, &v.SerialNumber, &v.Model, &status, &installedAt, &v.OwnerID, &v.ZoneID,
		&createdAt, &updatedAt,
		&v.Owner.Name, &v.Owner.Email, &v.Owner.Role,
		&v.Zone.Name, &v.Zone.Description); err != nil {
		return nil, fmt.Errorf("scanning device view: %w", err)
	}
	v.Status = Status(status)
	v.Owner.ID = v.OwnerID
	v.Zone.ID = v.ZoneID
	v.Sensors = []SensorRef{}

	var err error
	if v.InstalledAt, err = database.ParseTime(installedAt); err != nil {
		return nil, err
	}
	if v.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
