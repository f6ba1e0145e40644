package zone

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/iot-inventory/internal/infrastructure/database"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Repository defines the interface for zone persistence.
type Repository interface {
	Create(ctx context.Context, z *Zone) error
	GetByID(ctx context.Context, id string) (*Zone, error)
	List(ctx context.Context, f Filter) ([]Zone, error)
	Update(ctx context.Context, z *Zone) error
	Delete(ctx context.Context, id string) (*Zone, error)
	ZoneExists(ctx context.Context, id string) (bool, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed zone repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// errHasDevices marks a delete rejected by the devices.zone_id foreign key.
var errHasDevices = errors.New("zone still holds devices")

const zoneColumns = "id, name, description, is_active, created_at, updated_at"

// Create inserts a new zone.
func (r *SQLiteRepository) Create(ctx context.Context, z *Zone) error {
	if z.ID == "" {
		z.ID = integrity.NewID()
	}
	z.CreatedAt = database.Now()
	z.UpdatedAt = z.CreatedAt

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO zones ("+zoneColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		z.ID, z.Name, z.Description, database.BoolToInt(z.IsActive),
		database.FormatTime(z.CreatedAt), database.FormatTime(z.UpdatedAt),
	)
	if err != nil {
		return mapWriteError("creating zone", err)
	}
	return nil
}

// GetByID retrieves a zone by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Zone, error) {
	return r.getZone(ctx, "SELECT "+zoneColumns+" FROM zones WHERE id = ?", id)
}

// List returns zones ordered by name.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]Zone, error) {
	query := "SELECT " + zoneColumns + " FROM zones"
	if f.ActiveOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	defer rows.Close()

	zones := []Zone{}
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, *z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zones: %w", err)
	}
	return zones, nil
}

// Update writes every mutable field of z.
func (r *SQLiteRepository) Update(ctx context.Context, z *Zone) error {
	z.UpdatedAt = database.Now()

	result, err := r.db.ExecContext(ctx,
		"UPDATE zones SET name = ?, description = ?, is_active = ?, updated_at = ? WHERE id = ?",
		z.Name, z.Description, database.BoolToInt(z.IsActive), database.FormatTime(z.UpdatedAt), z.ID,
	)
	if err != nil {
		return mapWriteError("updating zone", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return integrity.ErrNotFound
	}
	return nil
}

// Delete removes a zone and returns the deleted row.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (*Zone, error) {
	z, err := r.getZone(ctx, "DELETE FROM zones WHERE id = ? RETURNING "+zoneColumns, id)
	if err != nil && database.ForeignKeyViolation(err) {
		return nil, errHasDevices
	}
	return z, err
}

// ZoneExists implements integrity.ZoneLookup.
func (r *SQLiteRepository) ZoneExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM zones WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking zone: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) getZone(ctx context.Context, query string, args ...any) (*Zone, error) {
	z, err := scanZone(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, integrity.ErrNotFound
	}
	return z, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanZone(s scanner) (*Zone, error) {
	var (
		z                    Zone
		isActive             int
		createdAt, updatedAt string
	)
	if err := s.Scan(&z.ID, &z.Name, &z.Description, &isActive, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning zone: %w", err)
	}
	z.IsActive = isActive != 0

	var err error
	if z.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if z.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &z, nil
}

func mapWriteError(op string, err error) error {
	if col, ok := database.UniqueViolation(err); ok && col == "name" {
		return &integrity.DuplicateKeyError{Field: "name"}
	}
	return fmt.Errorf("%s: %w", op, err)
}
