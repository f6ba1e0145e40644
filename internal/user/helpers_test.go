package user

import (
	"database/sql"
	"testing"

	"github.com/nerrad567/iot-inventory/internal/events/eventstest"
	"github.com/nerrad567/iot-inventory/internal/integrity"
	"github.com/nerrad567/iot-inventory/internal/testutil"
)

type fixture struct {
	db   *sql.DB
	repo *SQLiteRepository
	svc  *Service
	pub  *eventstest.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.OpenDB(t).DB
	repo := NewSQLiteRepository(db)
	lookups := testutil.Lookups(db)
	lookups.Users = repo
	pub := &eventstest.Recorder{}

	return &fixture{
		db:   db,
		repo: repo,
		svc:  NewService(repo, integrity.NewGuard(lookups), pub),
		pub:  pub,
	}
}

// addDevice inserts a device owned by ownerID in a fresh zone.
func (f *fixture) addDevice(t *testing.T, ownerID string) {
	t.Helper()
	zoneID := testutil.InsertZone(t, f.db, "zone-"+ownerID[:8])
	testutil.InsertDevice(t, f.db, "SN-"+ownerID[:8], ownerID, zoneID)
}
