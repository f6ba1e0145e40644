package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// TimeLayout is the storage format for every timestamp column. It is fixed
// width and UTC, so ORDER BY and range comparisons on the text match time order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a stored timestamp. RFC3339 values written by older tools
// are accepted too.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Now returns the current time truncated to storage precision, so a value
// returned from Create compares equal to the same row read back later.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// BoolToInt converts a Go bool to the 0/1 stored in INTEGER flag columns.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// UniqueViolation reports whether err is a UNIQUE or PRIMARY KEY constraint
// failure and, if so, which column caused it ("email" for
// "UNIQUE constraint failed: users.email").
func UniqueViolation(err error) (column string, ok bool) {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return "", false
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique &&
		sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return "", false
	}
	return constraintColumn(sqliteErr.Error()), true
}

// ForeignKeyViolation reports whether err is a FOREIGN KEY constraint failure.
// SQLite reports an ON DELETE RESTRICT violation as a trigger constraint with
// the foreign key message, so both codes count.
func ForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintForeignKey:
		return true
	case sqlite3.ErrConstraintTrigger:
		return strings.Contains(sqliteErr.Error(), "FOREIGN KEY constraint failed")
	default:
		return false
	}
}

// constraintColumn extracts the first column from a constraint message of the
// form "UNIQUE constraint failed: table.col[, table.col2]".
func constraintColumn(msg string) string {
	_, cols, found := strings.Cut(msg, ": ")
	if !found {
		return ""
	}
	first, _, _ := strings.Cut(cols, ",")
	first = strings.TrimSpace(first)
	if _, col, ok := strings.Cut(first, "."); ok {
		return col
	}
	return first
}
