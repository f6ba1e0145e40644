package sensor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/iot-inventory/internal/infrastructure/database"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Repository defines the interface for sensor persistence.
type Repository interface {
	Create(ctx context.Context, s *Sensor) error
	GetByID(ctx context.Context, id string) (*Sensor, error)
	List(ctx context.Context, f Filter) ([]Sensor, error)
	Update(ctx context.Context, s *Sensor) error
	Delete(ctx context.Context, id string) (*Sensor, error)
	SensorState(ctx context.Context, id string) (exists, active bool, err error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed sensor repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// errHasReadings marks a delete rejected by the readings.sensor_id foreign key.
var errHasReadings = errors.New("sensor still has readings")

const sensorColumns = "id, type, unit, model, location, is_active, created_at, updated_at"

// Create inserts a new sensor.
func (r *SQLiteRepository) Create(ctx context.Context, s *Sensor) error {
	if s.ID == "" {
		s.ID = integrity.NewID()
	}
	s.CreatedAt = database.Now()
	s.UpdatedAt = s.CreatedAt

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sensors ("+sensorColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, string(s.Type), s.Unit, s.Model, s.Location, database.BoolToInt(s.IsActive),
		database.FormatTime(s.CreatedAt), database.FormatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating sensor: %w", err)
	}
	return nil
}

// GetByID retrieves a sensor by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Sensor, error) {
	return r.getSensor(ctx, "SELECT "+sensorColumns+" FROM sensors WHERE id = ?", id)
}

// List returns sensors in creation order.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]Sensor, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.ActiveOnly {
		where = append(where, "is_active = 1")
	}

	query := "SELECT " + sensorColumns + " FROM sensors"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, rowid"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sensors: %w", err)
	}
	defer rows.Close()

	sensors := []Sensor{}
	for rows.Next() {
		s, err := scanSensor(rows)
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sensors: %w", err)
	}
	return sensors, nil
}

// Update writes every mutable field of s.
func (r *SQLiteRepository) Update(ctx context.Context, s *Sensor) error {
	s.UpdatedAt = database.Now()

	result, err := r.db.ExecContext(ctx,
		`UPDATE sensors SET type = ?, unit = ?, model = ?, location = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		string(s.Type), s.Unit, s.Model, s.Location, database.BoolToInt(s.IsActive),
		database.FormatTime(s.UpdatedAt), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sensor: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return integrity.ErrNotFound
	}
	return nil
}

// Delete removes a sensor and returns the deleted row. Device attachments
// go with it.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (*Sensor, error) {
	s, err := r.getSensor(ctx, "DELETE FROM sensors WHERE id = ? RETURNING "+sensorColumns, id)
	if err != nil && database.ForeignKeyViolation(err) {
		return nil, errHasReadings
	}
	return s, err
}

// SensorState implements integrity.SensorLookup.
func (r *SQLiteRepository) SensorState(ctx context.Context, id string) (exists, active bool, err error) {
	var flag int
	err = r.db.QueryRowContext(ctx, "SELECT is_active FROM sensors WHERE id = ?", id).Scan(&flag)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("checking sensor: %w", err)
	}
	return true, flag != 0, nil
}

func (r *SQLiteRepository) getSensor(ctx context.Context, query string, args ...any) (*Sensor, error) {
	s, err := scanSensor(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, integrity.ErrNotFound
	}
	return s, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSensor(sc scanner) (*Sensor, error) {
	var (
		s                    Sensor
		typ                  string
		isActive             int
		createdAt, updatedAt string
	)
	if err := sc.Scan(&s.ID, &typ, &s.Unit, &s.Model, &s.Location, &isActive, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning sensor: %w", err)
	}
	s.Type = Type(typ)
	s.IsActive = isActive != 0

	var err error
	if s.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
