package reading

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/iot-inventory/internal/infrastructure/database"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Repository defines the interface for reading persistence.
type Repository interface {
	Create(ctx context.Context, r *Reading) error
	GetByID(ctx context.Context, id string) (*Reading, error)
	View(ctx context.Context, id string) (*View, error)
	List(ctx context.Context, q Query) ([]View, error)
	Update(ctx context.Context, r *Reading) error
	Delete(ctx context.Context, id string) (*Reading, error)
	Stats(ctx context.Context, q Query) (*Stats, error)
	CountBySensor(ctx context.Context, sensorID string) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed reading repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// errSensorGone marks an insert rejected by the readings.sensor_id foreign key.
var errSensorGone = errors.New("sensor no longer exists")

const readingColumns = "id, sensor_id, value, time, created_at, updated_at"

const viewQuery = `
	SELECT r.id, r.sensor_id, r.value, r.time, r.created_at, r.updated_at,
		s.type, s.unit, s.model
	FROM readings r
	JOIN sensors s ON s.id = r.sensor_id`

// Create inserts a reading. Time defaults to the creation time.
func (r *SQLiteRepository) Create(ctx context.Context, rd *Reading) error {
	if rd.ID == "" {
		rd.ID = integrity.NewID()
	}
	rd.CreatedAt = database.Now()
	rd.UpdatedAt = rd.CreatedAt
	if rd.Time.IsZero() {
		rd.Time = rd.CreatedAt
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO readings ("+readingColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		rd.ID, rd.SensorID, rd.Value, database.FormatTime(rd.Time),
		database.FormatTime(rd.CreatedAt), database.FormatTime(rd.UpdatedAt),
	)
	if err != nil {
		if database.ForeignKeyViolation(err) {
			return errSensorGone
		}
		return fmt.Errorf("creating reading: %w", err)
	}
	return nil
}

// GetByID retrieves the stored form of a reading.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Reading, error) {
	return r.getReading(ctx, "SELECT "+readingColumns+" FROM readings WHERE id = ?", id)
}

// View retrieves one reading with its sensor expanded.
func (r *SQLiteRepository) View(ctx context.Context, id string) (*View, error) {
	v, err := scanView(r.db.QueryRowContext(ctx, viewQuery+" WHERE r.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, integrity.ErrNotFound
	}
	return v, err
}

// List returns the page of readings q selects. q must be normalized.
func (r *SQLiteRepository) List(ctx context.Context, q Query) ([]View, error) {
	clause, args := q.build()

	rows, err := r.db.QueryContext(ctx, viewQuery+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}
	defer rows.Close()

	views := []View{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}
	return views, nil
}

// Update writes the value and time of rd. The sensor never changes.
func (r *SQLiteRepository) Update(ctx context.Context, rd *Reading) error {
	rd.UpdatedAt = database.Now()

	result, err := r.db.ExecContext(ctx,
		"UPDATE readings SET value = ?, time = ?, updated_at = ? WHERE id = ?",
		rd.Value, database.FormatTime(rd.Time), database.FormatTime(rd.UpdatedAt), rd.ID,
	)
	if err != nil {
		return fmt.Errorf("updating reading: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return integrity.ErrNotFound
	}
	return nil
}

// Delete removes a reading and returns the deleted row.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (*Reading, error) {
	return r.getReading(ctx, "DELETE FROM readings WHERE id = ? RETURNING "+readingColumns, id)
}

// Stats aggregates the readings matching q's sensor and time range. Limit,
// offset and order are ignored.
func (r *SQLiteRepository) Stats(ctx context.Context, q Query) (*Stats, error) {
	q.Limit, q.Offset = -1, 0
	clause, args := q.build()

	var (
		count       int
		lo, hi, avg sql.NullFloat64
		first, last sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1), MIN(value), MAX(value), AVG(value), MIN(time), MAX(time) FROM ("+
			"SELECT r.value, r.time FROM readings r"+clause+")",
		args...,
	).Scan(&count, &lo, &hi, &avg, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("aggregating readings: %w", err)
	}

	st := &Stats{SensorID: q.SensorID, Count: count}
	if count == 0 {
		return st, nil
	}
	st.Min, st.Max, st.Avg = &lo.Float64, &hi.Float64, &avg.Float64

	f, err := database.ParseTime(first.String)
	if err != nil {
		return nil, err
	}
	l, err := database.ParseTime(last.String)
	if err != nil {
		return nil, err
	}
	st.First, st.Last = &f, &l
	return st, nil
}

// CountBySensor implements integrity.ReadingCounter.
func (r *SQLiteRepository) CountBySensor(ctx context.Context, sensorID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM readings WHERE sensor_id = ?", sensorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) getReading(ctx context.Context, query string, args ...any) (*Reading, error) {
	var (
		rd                       Reading
		at, createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rd.ID, &rd.SensorID, &rd.Value, &at, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, integrity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning reading: %w", err)
	}

	if rd.Time, err = database.ParseTime(at); err != nil {
		return nil, err
	}
	if rd.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if rd.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rd, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanView(s scanner) (*View, error) {
	var (
		v                        View
		at, createdAt, updatedAt string
	)
	if err := s.Scan(&v.ID, &v.SensorID, &v.Value, &at, &createdAt, &updatedAt,
		&v.Sensor.Type, &v.Sensor.Unit, &v.Sensor.Model); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning reading: %w", err)
	}
	v.Sensor.ID = v.SensorID

	var err error
	if v.Time, err = database.ParseTime(at); err != nil {
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
