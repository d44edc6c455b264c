package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/openfairway/rangelog/internal/db"
	"github.com/openfairway/rangelog/internal/store"
)

func openStore(t *testing.T, name string) *store.Store {
	t.Helper()
	ctx := context.Background()
	sqldb, err := db.Open(ctx, db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqldb.Close() })
	return store.New(sqldb)
}

func mustUser(t *testing.T, st *store.Store, username string) int64 {
	t.Helper()
	id, err := st.CreateUser(context.Background(), username, "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func loft(v float64) *float64 { return &v }

func TestUsers(t *testing.T) {
	st := openStore(t, "users")
	ctx := context.Background()

	id := mustUser(t, st, "alice")
	u, err := st.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.ID != id || u.Username != "alice" || u.Hash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := st.CreateUser(ctx, "alice", "other"); err == nil {
		t.Fatalf("expected unique violation for duplicate username")
	}
	if _, err := st.GetUserByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClubsCRUDAndOrdering(t *testing.T) {
	st := openStore(t, "clubs")
	ctx := context.Background()
	userID := mustUser(t, st, "alice")

	// Insert out of bag order on purpose.
	putter, err := st.CreateClub(ctx, userID, "Putter", nil, "")
	if err != nil {
		t.Fatalf("create putter: %v", err)
	}
	if putter.BagOrder != 300 {
		t.Fatalf("putter bag_order = %d, want 300", putter.BagOrder)
	}

	wedge, err := st.CreateClub(ctx, userID, "Lob Wedge", loft(60), "bent neck")
	if err != nil {
		t.Fatalf("create wedge: %v", err)
	}
	if wedge.BagOrder != 245 {
		t.Fatalf("60 degree wedge bag_order = %d, want 245", wedge.BagOrder)
	}

	driver, err := st.CreateClub(ctx, userID, " Driver ", nil, "")
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	if driver.BagOrder != 10 {
		t.Fatalf("driver bag_order = %d, want 10", driver.BagOrder)
	}

	clubs, err := st.ListClubs(ctx, userID)
	if err != nil {
		t.Fatalf("list clubs: %v", err)
	}
	if len(clubs) != 3 {
		t.Fatalf("club count = %d, want 3", len(clubs))
	}
	if clubs[0].ID != driver.ID || clubs[1].ID != wedge.ID || clubs[2].ID != putter.ID {
		t.Fatalf("clubs not in bag order: %+v", clubs)
	}

	// Renaming recomputes bag order from the new name and loft.
	updated, err := st.UpdateClub(ctx, putter.ID, userID, "7 iron", nil, "")
	if err != nil {
		t.Fatalf("update club: %v", err)
	}
	if updated.BagOrder != 160 {
		t.Fatalf("renamed club bag_order = %d, want 160", updated.BagOrder)
	}

	// Other users cannot see or edit the club.
	other := mustUser(t, st, "bob")
	if _, err := st.GetClub(ctx, driver.ID, other); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign club, got %v", err)
	}
	if _, err := st.UpdateClub(ctx, driver.ID, other, "stolen", nil, ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating foreign club, got %v", err)
	}
}

func TestShotsAndCascade(t *testing.T) {
	st := openStore(t, "shots")
	ctx := context.Background()
	userID := mustUser(t, st, "alice")

	driver, err := st.CreateClub(ctx, userID, "driver", nil, "")
	if err != nil {
		t.Fatalf("create club: %v", err)
	}
	iron, err := st.CreateClub(ctx, userID, "7 iron", nil, "")
	if err != nil {
		t.Fatalf("create club: %v", err)
	}

	if _, err := st.CreateShot(ctx, userID, driver.ID, "2026-08-01", 250, "pull", ""); err != nil {
		t.Fatalf("create shot: %v", err)
	}
	if _, err := st.CreateShot(ctx, userID, driver.ID, "2026-08-02", 260, "", "into wind"); err != nil {
		t.Fatalf("create shot: %v", err)
	}
	if _, err := st.CreateShot(ctx, userID, iron.ID, "2026-08-01", 150, "fade", ""); err != nil {
		t.Fatalf("create shot: %v", err)
	}

	// Logging against someone else's club is a not-found, not a foreign write.
	other := mustUser(t, st, "bob")
	if _, err := st.CreateShot(ctx, other, driver.ID, "2026-08-01", 100, "", ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, err := st.ListShots(ctx, userID, "")
	if err != nil {
		t.Fatalf("list shots: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("shot count = %d, want 3", len(all))
	}
	// Bag order first, then newest date first.
	if all[0].ClubID != driver.ID || all[0].Date != "2026-08-02" {
		t.Fatalf("unexpected first row: %+v", all[0])
	}
	if all[0].Context != "into wind" || all[0].Result != "" {
		t.Fatalf("nullable columns did not round-trip: %+v", all[0])
	}
	if all[2].ClubID != iron.ID || all[2].ClubName != "7 iron" {
		t.Fatalf("unexpected last row: %+v", all[2])
	}

	byDate, err := st.ListShots(ctx, userID, "2026-08-01")
	if err != nil {
		t.Fatalf("list shots by date: %v", err)
	}
	if len(byDate) != 2 {
		t.Fatalf("filtered shot count = %d, want 2", len(byDate))
	}

	none, err := st.ListShots(ctx, userID, "1999-01-01")
	if err != nil {
		t.Fatalf("list shots empty date: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no shots for empty date, got %d", len(none))
	}

	// Deleting the driver removes its shots too.
	if err := st.DeleteClub(ctx, driver.ID, userID); err != nil {
		t.Fatalf("delete club: %v", err)
	}
	left, err := st.ListShots(ctx, userID, "")
	if err != nil {
		t.Fatalf("list shots after cascade: %v", err)
	}
	if len(left) != 1 || left[0].ClubID != iron.ID {
		t.Fatalf("cascade left wrong rows: %+v", left)
	}

	// Shot deletion is owner-scoped.
	if err := st.DeleteShot(ctx, left[0].ID, other); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting foreign shot, got %v", err)
	}
	if err := st.DeleteShot(ctx, left[0].ID, userID); err != nil {
		t.Fatalf("delete shot: %v", err)
	}
}
