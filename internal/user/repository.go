package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nerrad567/iot-inventory/internal/infrastructure/database"
	"github.com/nerrad567/iot-inventory/internal/integrity"
)

// Filter narrows List. The zero value lists every user.
type Filter struct {
	Email string
}

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f Filter) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) (*User, error)
	UserExists(ctx context.Context, id string) (bool, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed user repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const userColumns = "id, name, email, password_hash, role, is_active, created_at, updated_at"

// Create inserts a new user. The ID and timestamps are generated.
func (r *SQLiteRepository) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = integrity.NewID()
	}
	u.CreatedAt = database.Now()
	u.UpdatedAt = u.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), database.BoolToInt(u.IsActive),
		database.FormatTime(u.CreatedAt), database.FormatTime(u.UpdatedAt),
	)
	if err != nil {
		return mapWriteError("creating user", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", normalizeEmail(email))
}

// List returns users ordered by creation date.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]User, error) {
	query := "SELECT " + userColumns + " FROM users"
	var args []any
	if f.Email != "" {
		query += " WHERE email = ?"
		args = append(args, normalizeEmail(f.Email))
	}
	query += " ORDER BY created_at ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// Update writes every mutable field of u, including the password hash.
func (r *SQLiteRepository) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = database.Now()

	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, string(u.Role), database.BoolToInt(u.IsActive),
		database.FormatTime(u.UpdatedAt), u.ID,
	)
	if err != nil {
		return mapWriteError("updating user", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return integrity.ErrNotFound
	}
	return nil
}

// Delete removes a user and returns the deleted row.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) (*User, error) {
	u, err := r.getUser(ctx, "DELETE FROM users WHERE id = ? RETURNING "+userColumns, id)
	if err != nil && database.ForeignKeyViolation(err) {
		return nil, errOwnsDevices
	}
	return u, err
}

// UserExists implements integrity.UserLookup.
func (r *SQLiteRepository) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking user: %w", err)
	}
	return n > 0, nil
}

// errOwnsDevices marks a delete rejected by the devices.owner_id foreign key.
var errOwnsDevices = errors.New("user still owns devices")

func (r *SQLiteRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, integrity.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*User, error) {
	var (
		u                    User
		role                 string
		isActive             int
		createdAt, updatedAt string
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &isActive, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Role = Role(role)
	u.IsActive = isActive != 0

	var err error
	if u.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func mapWriteError(op string, err error) error {
	if col, ok := database.UniqueViolation(err); ok && col == "email" {
		return &integrity.DuplicateKeyError{Field: "email"}
	}
	return fmt.Errorf("%s: %w", op, err)
}
