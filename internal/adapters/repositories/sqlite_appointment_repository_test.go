package repositories

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"
	"walk-schedule-service/internal/domain"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return db
}

func insertAppointment(t *testing.T, db *sql.DB, id uuid.UUID, recurring bool, flags int, singleDate string) {
	t.Helper()

	_, err := db.Exec(`
	INSERT INTO appointments (appointment_id, recurring, weekday_flags, single_date, start_time, end_time, duration_minutes, walk_type, canceled_entirely)
	VALUES (?, ?, ?, ?, '09:00', '10:00', 30, 'group', 0);
	`, id.String(), recurring, flags, singleDate)
	if err != nil {
		t.Fatalf("insert appointment: %v", err)
	}
}

func TestSqliteRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteAppointmentRepository(db)
	ctx := context.Background()

	id := uuid.New()
	flags := int(domain.NewWeekdaySet(time.Wednesday, time.Saturday))
	insertAppointment(t, db, id, true, flags, "")

	canceled := domain.NewDate(2024, time.March, 13)
	if err := repo.CancelDate(ctx, id, canceled); err != nil {
		t.Fatalf("cancel date: %v", err)
	}
	// Cancelling the same date twice must be idempotent.
	if err := repo.CancelDate(ctx, id, canceled); err != nil {
		t.Fatalf("cancel date again: %v", err)
	}

	covering := uuid.New()
	delegation := domain.Delegation{
		CoveringUserID:     covering,
		Status:             domain.DelegationAccepted,
		ShareDates:         []domain.Date{domain.NewDate(2024, time.March, 16)},
		CoveringPercentage: 75,
	}
	if err := repo.AddDelegation(ctx, id, delegation); err != nil {
		t.Fatalf("add delegation: %v", err)
	}

	defs, err := repo.ListDefinitions(ctx)
	if err != nil {
		t.Fatalf("list definitions: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}

	def := defs[0]
	if def.ID != id {
		t.Fatalf("id = %s, want %s", def.ID, id)
	}
	if !def.Recurring || !def.Weekdays.Has(time.Wednesday) || !def.Weekdays.Has(time.Saturday) {
		t.Errorf("weekday flags lost in round trip: %+v", def)
	}
	if len(def.Cancellations) != 1 || def.Cancellations[0] != canceled {
		t.Errorf("cancellations = %+v, want [%s]", def.Cancellations, canceled)
	}
	if len(def.Delegations) != 1 {
		t.Fatalf("expected 1 delegation, got %d", len(def.Delegations))
	}

	got := def.Delegations[0]
	if got.CoveringUserID != covering || got.Status != domain.DelegationAccepted || got.CoveringPercentage != 75 {
		t.Errorf("delegation mismatch: %+v", got)
	}
	if len(got.ShareDates) != 1 || got.ShareDates[0] != domain.NewDate(2024, time.March, 16) {
		t.Errorf("share dates mismatch: %+v", got.ShareDates)
	}
}

func TestSqliteRepositoryDelegationOrderPreserved(t *testing.T) {
	db := newTestDB(t)
	repo := NewSqliteAppointmentRepository(db)
	ctx := context.Background()

	id := uuid.New()
	insertAppointment(t, db, id, true, int(domain.NewWeekdaySet(time.Monday)), "")

	first := uuid.New()
	second := uuid.New()
	for _, user := range []uuid.UUID{first, second} {
		if err := repo.AddDelegation(ctx, id, domain.Delegation{
			CoveringUserID: user,
			Status:         domain.DelegationAccepted,
			AllDates:       true,
		}); err != nil {
			t.Fatalf("add delegation: %v", err)
		}
	}

	defs, err := repo.ListDefinitions(ctx)
	if err != nil {
		t.Fatalf("list definitions: %v", err)
	}
	if len(defs[0].Delegations) != 2 {
		t.Fatalf("expected 2 delegations, got %d", len(defs[0].Delegations))
	}

	// Creation order backs the resolver's first-created-wins tie-break.
	if defs[0].Delegations[0].CoveringUserID != first {
		t.Error("delegations not returned in creation order")
	}
}

func TestSeedFromJSON(t *testing.T) {
	db := newTestDB(t)

	seed := t.TempDir() + "/appointments.json"
	payload := `[
	  {
	    "appointment_id": "` + uuid.NewString() + `",
	    "recurring": true,
	    "weekdays": ["Wednesday", "Saturday"],
	    "start_time": "09:00",
	    "end_time": "10:00",
	    "duration_minutes": 30,
	    "walk_type": "group"
	  },
	  {
	    "appointment_id": "` + uuid.NewString() + `",
	    "recurring": false,
	    "single_date": "2024-03-10",
	    "start_time": "14:00",
	    "end_time": "15:00",
	    "duration_minutes": 60,
	    "walk_type": "training"
	  }
	]`
	if err := os.WriteFile(seed, []byte(payload), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if err := SeedFromJSON(db, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	defs, err := NewSqliteAppointmentRepository(db).ListDefinitions(context.Background())
	if err != nil {
		t.Fatalf("list definitions: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
}
