// Package database provides SQLite connectivity for the inventory store.
//
// It manages:
//   - the connection, with foreign keys enforced and optional WAL mode
//   - schema migrations read from any fs.FS (embedded in production, fstest in tests)
//   - health checks used by the /health endpoint
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql. Each migration runs in its own transaction.
package database
