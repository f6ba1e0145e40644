package database

import (
	"context"
	"testing"
	"time"
)

func TestFormatParseTime(t *testing.T) {
	in := time.Date(2026, 3, 1, 9, 5, 7, 123456789, time.FixedZone("CET", 3600))

	s := FormatTime(in)
	if s != "2026-03-01T08:05:07.123Z" {
		t.Fatalf("FormatTime() = %q", s)
	}

	got, err := ParseTime(s)
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}
	if !got.Equal(in.Truncate(time.Millisecond)) {
		t.Errorf("ParseTime() = %v, want %v", got, in.Truncate(time.Millisecond))
	}

	if _, err := ParseTime("2026-03-01T08:05:07Z"); err != nil {
		t.Errorf("ParseTime(RFC3339) error = %v", err)
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("ParseTime(garbage) expected error")
	}
}

func TestFormatTime_LexicalOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := FormatTime(base.Add(999 * time.Millisecond))
	later := FormatTime(base.Add(time.Second))
	if earlier >= later {
		t.Errorf("%q should sort before %q", earlier, later)
	}
}

func TestUniqueViolation(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "CREATE TABLE users (id TEXT PRIMARY KEY, email TEXT UNIQUE)"); err != nil {
		t.Fatalf("CREATE TABLE error = %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO users VALUES ('u1', 'a@b.co')"); err != nil {
		t.Fatalf("INSERT error = %v", err)
	}

	_, err := db.ExecContext(ctx, "INSERT INTO users VALUES ('u2', 'a@b.co')")
	col, ok := UniqueViolation(err)
	if !ok || col != "email" {
		t.Errorf("UniqueViolation() = (%q, %v), want (email, true)", col, ok)
	}

	_, err = db.ExecContext(ctx, "INSERT INTO users VALUES ('u1', 'c@d.co')")
	if col, ok := UniqueViolation(err); !ok || col != "id" {
		t.Errorf("UniqueViolation(pk) = (%q, %v), want (id, true)", col, ok)
	}

	if _, ok := UniqueViolation(nil); ok {
		t.Error("UniqueViolation(nil) should be false")
	}
}

func TestForeignKeyViolation(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE sensors (id TEXT PRIMARY KEY);
		CREATE TABLE readings (id TEXT PRIMARY KEY, sensor_id TEXT NOT NULL REFERENCES sensors(id));
	`); err != nil {
		t.Fatalf("creating tables: %v", err)
	}

	_, err := db.ExecContext(ctx, "INSERT INTO readings VALUES ('r1', 'nope')")
	if !ForeignKeyViolation(err) {
		t.Errorf("ForeignKeyViolation(%v) = false, want true", err)
	}
}

// ON DELETE RESTRICT fails with a trigger extended code, not the foreign key one.
func TestForeignKeyViolation_RestrictDelete(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE users (id TEXT PRIMARY KEY);
		CREATE TABLE devices (id TEXT PRIMARY KEY, owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT);
		INSERT INTO users VALUES ('u1');
		INSERT INTO devices VALUES ('d1', 'u1');
		CREATE TABLE locked (id TEXT PRIMARY KEY);
		CREATE TRIGGER locked_no_insert BEFORE INSERT ON locked
		BEGIN SELECT RAISE(ABORT, 'locked table'); END;
	`); err != nil {
		t.Fatalf("creating tables: %v", err)
	}

	_, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = 'u1'")
	if !ForeignKeyViolation(err) {
		t.Errorf("ForeignKeyViolation(%v) = false, want true", err)
	}

	_, err = db.ExecContext(ctx, "INSERT INTO locked VALUES ('x')")
	if err == nil {
		t.Fatal("trigger did not abort the insert")
	}
	if ForeignKeyViolation(err) {
		t.Errorf("ForeignKeyViolation(%v) = true for a plain trigger abort", err)
	}
}

func TestConstraintColumn(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"UNIQUE constraint failed: users.email", "email"},
		{"UNIQUE constraint failed: device_sensors.device_id, device_sensors.sensor_id", "device_id"},
		{"UNIQUE constraint failed: name", "name"},
		{"something else", ""},
	}
	for _, tt := range tests {
		if got := constraintColumn(tt.msg); got != tt.want {
			t.Errorf("constraintColumn(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
